package verseapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/john 3:16", r.URL.Path)
		assert.Equal(t, "kjv", r.URL.Query().Get("translation"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"reference": "John 3:16",
			"text": "For God so loved the world,\nthat he gave his only begotten Son\n",
			"translation_id": "kjv",
			"translation_name": "King James Version"
		}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL+"/", "kjv").Lookup(context.Background(), "john 3:16")
	require.NoError(t, err)
	assert.Equal(t, "John 3:16", res.Reference)
	assert.Equal(t, "For God so loved the world, that he gave his only begotten Son", res.Text)
	assert.Equal(t, "kjv", res.Translation)
	assert.Equal(t, "King James Version", res.TranslationName)
}

func TestLookup_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"404", http.StatusNotFound, `{"error":"not found"}`},
		{"error field", http.StatusOK, `{"error":"not found"}`},
		{"empty text", http.StatusOK, `{"reference":"Obadiah 1:99","text":"  \n"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "kjv").Lookup(context.Background(), "Obadiah 1:99")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestLookup_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "kjv").Lookup(context.Background(), "John 1:1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "502")
}

func TestLookup_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, "kjv").Lookup(ctx, "John 1:1")
	assert.Error(t, err)
}
