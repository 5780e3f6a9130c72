package smp

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr error
	}{
		{name: "integer", in: "20", want: 2000000000},
		{name: "full fraction", in: "1.50000000", want: 150000000},
		{name: "short fraction", in: "0.5", want: 50000000},
		{name: "smallest unit", in: "0.00000001", want: 1},
		{name: "zero", in: "0", want: 0},
		{name: "negative", in: "-3.5", want: -350000000},
		{name: "nine fractional digits", in: "0.000000001", wantErr: ErrTooManyDigits},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "1e"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		units int64
		want  string
	}{
		{units: 2000000000, want: "20.00000000"},
		{units: 150000000, want: "1.50000000"},
		{units: 1, want: "0.00000001"},
		{units: 0, want: "0.00000000"},
	}
	for _, tt := range tests {
		if got := Format(tt.units); got != tt.want {
			t.Fatalf("Format(%d) = %q, want %q", tt.units, got, tt.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	units, err := Parse(Format(123456789))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if units != 123456789 {
		t.Fatalf("round trip got %d", units)
	}
}

func TestDecimalConversions(t *testing.T) {
	d := ToDecimal(150000000)
	if d.String() != "1.5" {
		t.Fatalf("ToDecimal = %s", d.String())
	}
	units, err := FromDecimal(d)
	if err != nil {
		t.Fatalf("from decimal: %v", err)
	}
	if units != 150000000 {
		t.Fatalf("FromDecimal round trip got %d", units)
	}
}
