package model

import (
	"errors"
	"testing"
)

// TestNewPhoneNumber tests parsing and validation of raw inputs.
func TestNewPhoneNumber(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		input       string
		wantErr     error
		wantCC      string
		wantDigits  string
		wantDisplay string
	}{
		{
			name:        "bare 10-digit NANP number",
			input:       "5551234567",
			wantCC:      "1",
			wantDigits:  "15551234567",
			wantDisplay: "+1 (555) 123-4567",
		},
		{
			name:        "formatted NANP number",
			input:       "(555) 123-4567",
			wantCC:      "1",
			wantDigits:  "15551234567",
			wantDisplay: "+1 (555) 123-4567",
		},
		{
			name:        "11-digit NANP with leading 1",
			input:       "1-555-123-4567",
			wantCC:      "1",
			wantDigits:  "15551234567",
			wantDisplay: "+1 (555) 123-4567",
		},
		{
			name:        "E.164 NANP",
			input:       "+15551234567",
			wantCC:      "1",
			wantDigits:  "15551234567",
			wantDisplay: "+1 (555) 123-4567",
		},
		{
			name:        "E.164 UK number",
			input:       "+44 20 7946 0958",
			wantCC:      "44",
			wantDigits:  "442079460958",
			wantDisplay: "+44 2079460958",
		},
		{
			name:        "three-digit country code",
			input:       "+351 912 345 678",
			wantCC:      "351",
			wantDigits:  "351912345678",
			wantDisplay: "+351 912345678",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmptyPhoneNumber,
		},
		{
			name:    "punctuation only",
			input:   "()- .",
			wantErr: ErrEmptyPhoneNumber,
		},
		{
			name:    "too short",
			input:   "123456",
			wantErr: ErrPhoneNumberTooShort,
		},
		{
			name:    "too long",
			input:   "1234567890123456",
			wantErr: ErrPhoneNumberTooLong,
		},
		{
			name:    "unparseable length without country code",
			input:   "123456789",
			wantErr: ErrUnknownCountryCode,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p, err := NewPhoneNumber(tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("NewPhoneNumber(%q) error = %v, want %v", tc.input, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPhoneNumber(%q) unexpected error: %v", tc.input, err)
			}
			if p.CountryCode() != tc.wantCC {
				t.Errorf("country code: got %q, want %q", p.CountryCode(), tc.wantCC)
			}
			if p.Digits() != tc.wantDigits {
				t.Errorf("digits: got %q, want %q", p.Digits(), tc.wantDigits)
			}
			if p.Display() != tc.wantDisplay {
				t.Errorf("display: got %q, want %q", p.Display(), tc.wantDisplay)
			}
		})
	}
}

// TestPhoneNumberLocation tests NANP area code location lookup.
func TestPhoneNumberLocation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input        string
		wantLocation string
	}{
		{"+12125551234", "New York"},
		{"+14155551234", "California"},
		{"+12025551234", "Washington DC"},
		{"+442079460958", ""}, // non-NANP has no area code location
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			p := MustNewPhoneNumber(tc.input)
			if got := p.Location(); got != tc.wantLocation {
				t.Errorf("Location() = %q, want %q", got, tc.wantLocation)
			}
		})
	}
}

// TestPhoneNumberFormatVariants tests the query-building format list.
func TestPhoneNumberFormatVariants(t *testing.T) {
	t.Parallel()

	p := MustNewPhoneNumber("5551234567")
	variants := p.FormatVariants()

	want := []string{
		"+15551234567",
		"(555) 123-4567",
		"555-123-4567",
		"555.123.4567",
		"5551234567",
	}
	have := make(map[string]bool, len(variants))
	for _, v := range variants {
		have[v] = true
	}
	for _, w := range want {
		if !have[w] {
			t.Errorf("FormatVariants() missing %q (got %v)", w, variants)
		}
	}

	// Every variant must normalize back to the same digits.
	for _, v := range variants {
		if got := DigitsOnly(v); got != "15551234567" && got != "5551234567" {
			t.Errorf("variant %q normalizes to %q", v, got)
		}
	}
}

// TestPhoneNumberEqual tests normalized equality across input formats.
func TestPhoneNumberEqual(t *testing.T) {
	t.Parallel()

	a := MustNewPhoneNumber("(555) 123-4567")
	b := MustNewPhoneNumber("+1 555 123 4567")
	c := MustNewPhoneNumber("5559876543")

	if !a.Equal(b) {
		t.Errorf("expected %v and %v to be equal", a, b)
	}
	if a.Equal(c) {
		t.Errorf("expected %v and %v to differ", a, c)
	}
}

// TestDigitsOnly tests the shared digit normalization helper.
func TestDigitsOnly(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		want  string
	}{
		{"(555) 123-4567", "5551234567"},
		{"+1.555.123.4567", "15551234567"},
		{"no digits", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := DigitsOnly(tc.input); got != tc.want {
				t.Errorf("DigitsOnly(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// TestPhoneNumberLineType tests the VoIP area code hint.
func TestPhoneNumberLineType(t *testing.T) {
	t.Parallel()

	voip := MustNewPhoneNumber("4245551234")
	if got := voip.LineType(); got != "Possibly VoIP" {
		t.Errorf("LineType() = %q, want %q", got, "Possibly VoIP")
	}

	regular := MustNewPhoneNumber("2125551234")
	if got := regular.LineType(); got == "Possibly VoIP" {
		t.Errorf("LineType() = %q for a non-VoIP area code", got)
	}
}
