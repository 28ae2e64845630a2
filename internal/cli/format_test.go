package cli

import "testing"

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{12.5, "12.50"},
		{110.5, "110.50"},
		{1234.5, "1,234.50"},
		{1234567.25, "1,234,567.25"},
		{-3.5, "-3.50"},
		{-0.001, "0.00"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatWhole(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{300, "300"},
		{70.4, "70"},
		{2500, "2,500"},
		{-0.2, "0"},
	}
	for _, tt := range tests {
		if got := FormatWhole(tt.in); got != tt.want {
			t.Errorf("FormatWhole(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(12.5, "B"); got != "12.50 B" {
		t.Errorf("FormatMoney = %q", got)
	}
	if got := FormatMoney(12.5, ""); got != "12.50" {
		t.Errorf("FormatMoney without unit = %q", got)
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(1, "proposal"); got != "1 proposal" {
		t.Errorf("FormatCount(1) = %q", got)
	}
	if got := FormatCount(1200, "proposal"); got != "1,200 proposals" {
		t.Errorf("FormatCount(1200) = %q", got)
	}
}
