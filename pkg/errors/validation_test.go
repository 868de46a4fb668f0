package errors

import (
	"math"
	"testing"
)

func TestValidatePlaceName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Paris", false},
		{"with space", "New York", false},
		{"accented", "São Paulo", false},
		{"hyphenated", "Aix-en-Provence", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", string(make([]byte, 200)), true},
		{"slash", "foo/bar", true},
		{"traversal", "..", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlaceName("city", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePlaceName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		wantErr  bool
	}{
		{"paris", 48.8566, 2.3522, false},
		{"south west", -33.8688, -70.6693, false},
		{"poles", 90, 180, false},
		{"lat too high", 90.1, 0, true},
		{"lon too low", 0, -180.5, true},
		{"nan", math.NaN(), 0, true},
		{"inf", 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.lat, tt.lon)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinates(%v, %v) error = %v, wantErr %v", tt.lat, tt.lon, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDPI(t *testing.T) {
	tests := []struct {
		dpi     int
		wantErr bool
	}{
		{72, false},
		{300, false},
		{600, false},
		{71, true},
		{601, true},
		{0, true},
	}

	for _, tt := range tests {
		if err := ValidateDPI(tt.dpi); (err != nil) != tt.wantErr {
			t.Errorf("ValidateDPI(%d) error = %v, wantErr %v", tt.dpi, err, tt.wantErr)
		}
	}
}

func TestValidateRadius(t *testing.T) {
	if err := ValidateRadius(29000); err != nil {
		t.Errorf("ValidateRadius(29000) = %v", err)
	}
	if err := ValidateRadius(0); err == nil {
		t.Error("ValidateRadius(0) should fail")
	}
	if err := ValidateRadius(-5); err == nil {
		t.Error("ValidateRadius(-5) should fail")
	}
}

func TestValidateHexColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#FFF", false},
		{"#0a0a0a", false},
		{"#0A0A0AFF", false},
		{"FFFFFF", true},
		{"#GGGGGG", true},
		{"#12345", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if err := ValidateHexColor(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://overpass-api.de/api/interpreter", false},
		{"http://localhost:8080", false},
		{"", true},
		{"ftp://example.com", true},
		{"file:///etc/passwd", true},
	}

	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
