package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"test@example.com", false},
		{"user@mail.example.com", false},
		{"user+tag@example.com", false},
		{"  padded@example.com  ", false},
		{"testexample.com", true},
		{"test@", true},
		{"@example.com", true},
		{"", true},
		{"test @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"Priscilla", false},
		{"Mary Magdalene", false},
		{"O'Brien", false},
		{"", true},
		{"   ", true},
		{"J", true},
		{strings.Repeat("a", 101), true},
	}

	for _, tt := range tests {
		err := ValidateName(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"exactly minimum", "pass1234", false},
		{"too short", "pass123", true},
		{"empty", "", true},
		{"bcrypt limit", strings.Repeat("p", MaxPasswordLength), false},
		{"over bcrypt limit", strings.Repeat("p", MaxPasswordLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReference(t *testing.T) {
	tests := []struct {
		reference string
		wantErr   bool
	}{
		{"John 3:16", false},
		{"Psalm 23:1", false},
		{"1 Corinthians 13:4-7", false},
		{"Song of Solomon 2:4", false},
		{"  Romans   8:28 ", false},
		{"", true},
		{"John", true},
		{"John 3", true},
		{"3:16", true},
		{"John 3:16; DROP TABLE verses", true},
	}

	for _, tt := range tests {
		t.Run(tt.reference, func(t *testing.T) {
			err := ValidateReference(tt.reference)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateReference(%q) error = %v, wantErr %v", tt.reference, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeReference(t *testing.T) {
	if got := NormalizeReference("  1  John\t4:8 "); got != "1 John 4:8" {
		t.Errorf("NormalizeReference() = %q", got)
	}
}

func TestValidateMaskInterval(t *testing.T) {
	for interval := MinMaskInterval; interval <= MaxMaskInterval; interval++ {
		if err := ValidateMaskInterval(interval); err != nil {
			t.Errorf("ValidateMaskInterval(%d) unexpected error: %v", interval, err)
		}
	}

	for _, interval := range []int{-1, 0, 1, 11} {
		err := ValidateMaskInterval(interval)
		var ve ValidationError
		if !errors.As(err, &ve) || ve.Field != "mask_interval" {
			t.Errorf("ValidateMaskInterval(%d) = %v, want mask_interval error", interval, err)
		}
	}
}
