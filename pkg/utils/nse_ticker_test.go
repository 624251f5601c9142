package utils

import "testing"

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"BIKAJI", "BIKAJI"},
		{"bikaji", "BIKAJI"},
		{" bikaji ", "BIKAJI"},
		{"$BIKAJI", "BIKAJI"},
		{"NSE:BIKAJI", "BIKAJI"},
		{"BIKAJI.NS", "BIKAJI"},
		{"Bikaji Foods  International Ltd", "BIKAJI"},
		{"idfc first bank", "IDFCFIRSTB"},
		{"IDFCFIRSTB.BO", "IDFCFIRSTB"},
		{"Aditya Birla Lifestyle Brands", "ABLBL"},
		{"UNKNOWNSTOCK", "UNKNOWNSTOCK"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeTicker(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeTicker(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTickerSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"IDFCFIRSTB", "idfcfirstb"},
		{"bikaji foods", "bikaji"},
		{"M&M", "m-m"},
		{"BAJAJ-AUTO", "bajaj-auto"},
		{"&X&", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := TickerSlug(tt.input)
			if result != tt.expected {
				t.Errorf("TickerSlug(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
