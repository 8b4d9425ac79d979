package config

import (
	"errors"
	"testing"
)

// TestDurationConverterFor verifies format lookup and the behavior of
// each built-in converter.
func TestDurationConverterFor(t *testing.T) {
	t.Parallel()

	t.Run("unknown format returns ErrUnknownDurationFormat", func(t *testing.T) {
		t.Parallel()

		_, err := DurationConverterFor("sundial")
		if !errors.Is(err, ErrUnknownDurationFormat) {
			t.Errorf("expected ErrUnknownDurationFormat, got %v", err)
		}
	})

	t.Run("clock format", func(t *testing.T) {
		t.Parallel()

		convert, err := DurationConverterFor("clock")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tests := []struct {
			raw     string
			want    int
			wantErr bool
		}{
			{raw: "45", want: 45},
			{raw: "0:45", want: 45},
			{raw: "1:30", want: 90},
			{raw: "12:00", want: 720},
			{raw: "1:02:03", want: 3723},
			{raw: " 1:30 ", want: 90},
			{raw: "", wantErr: true},
			{raw: "1:2:3:4", wantErr: true},
			{raw: "1:xx", wantErr: true},
			{raw: "-1:30", wantErr: true},
		}
		for _, tt := range tests {
			got, err := convert(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("convert(%q) expected error, got %d", tt.raw, got)
				}
				continue
			}
			if err != nil {
				t.Errorf("convert(%q) unexpected error: %v", tt.raw, err)
				continue
			}
			if got != tt.want {
				t.Errorf("convert(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		}
	})

	t.Run("seconds format", func(t *testing.T) {
		t.Parallel()

		convert, err := DurationConverterFor("seconds")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tests := []struct {
			raw     string
			want    int
			wantErr bool
		}{
			{raw: "90", want: 90},
			{raw: "0", want: 0},
			{raw: " 3600 ", want: 3600},
			{raw: "1:30", wantErr: true},
			{raw: "ninety", wantErr: true},
			{raw: "-5", wantErr: true},
		}
		for _, tt := range tests {
			got, err := convert(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("convert(%q) expected error, got %d", tt.raw, got)
				}
				continue
			}
			if err != nil {
				t.Errorf("convert(%q) unexpected error: %v", tt.raw, err)
				continue
			}
			if got != tt.want {
				t.Errorf("convert(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		}
	})

	t.Run("iso8601 format", func(t *testing.T) {
		t.Parallel()

		convert, err := DurationConverterFor("iso8601")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tests := []struct {
			raw     string
			want    int
			wantErr bool
		}{
			{raw: "PT1M30S", want: 90},
			{raw: "PT45S", want: 45},
			{raw: "PT2M", want: 120},
			{raw: "PT1H2M3S", want: 3723},
			{raw: "PT", wantErr: true},
			{raw: "1:30", wantErr: true},
			{raw: "P1DT1S", wantErr: true},
		}
		for _, tt := range tests {
			got, err := convert(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("convert(%q) expected error, got %d", tt.raw, got)
				}
				continue
			}
			if err != nil {
				t.Errorf("convert(%q) unexpected error: %v", tt.raw, err)
				continue
			}
			if got != tt.want {
				t.Errorf("convert(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		}
	})
}
