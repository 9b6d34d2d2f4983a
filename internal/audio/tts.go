// Package audio fetches text-to-speech recordings of verses for the read step.
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	requestTimeout = 10 * time.Second
	// The translate endpoint rejects queries longer than this.
	maxChunkLength = 200
)

// TTSService writes one MP3 per verse into audioDir
type TTSService struct {
	audioDir string
	endpoint string
	client   *http.Client
}

// NewTTSService creates a TTS service that saves files under audioDir and
// fetches speech from endpoint, a Google Translate TTS compatible URL.
func NewTTSService(audioDir, endpoint string) *TTSService {
	return &TTSService{
		audioDir: audioDir,
		endpoint: endpoint,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// VerseFilename is the audio filename used for a verse ID.
func VerseFilename(verseID int64) string {
	return fmt.Sprintf("verse_%d.mp3", verseID)
}

// GenerateVerseAudio speaks text into the verse's MP3 and returns the
// filename, reusing an existing file.
func (s *TTSService) GenerateVerseAudio(ctx context.Context, verseID int64, text string) (string, error) {
	filename := VerseFilename(verseID)
	path := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	// A partial download must never be left at path.
	tmp, err := os.CreateTemp(s.audioDir, filename+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	defer os.Remove(tmp.Name())

	for _, chunk := range splitText(text, maxChunkLength) {
		if err := s.fetchSpeech(ctx, chunk, tmp); err != nil {
			tmp.Close()
			return "", fmt.Errorf("failed to generate audio: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save audio file: %w", err)
	}
	return filename, nil
}

func (s *TTSService) fetchSpeech(ctx context.Context, text string, w io.Writer) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", strconv.Itoa(len(text)))

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// The endpoint refuses requests without a browser user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}
	return nil
}

// splitText breaks text into pieces of at most limit bytes on word
// boundaries. A single word longer than limit becomes its own piece.
func splitText(text string, limit int) []string {
	var chunks []string
	var current strings.Builder

	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+1+len(word) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
