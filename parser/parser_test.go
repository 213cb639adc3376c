package parser

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{
			name:     "plain dollars",
			input:    "$199.99",
			expected: 199.99,
			ok:       true,
		},
		{
			name:     "us prefix with thousands separator",
			input:    "US $1,299.50",
			expected: 1299.50,
			ok:       true,
		},
		{
			name:     "no fraction",
			input:    "$1,299",
			expected: 1299,
			ok:       true,
		},
		{
			name:     "spread whitespace",
			input:    "US  $ 42.00",
			expected: 42,
			ok:       true,
		},
		{
			name:     "first amount wins",
			input:    "$50.00 to $75.00",
			expected: 50,
			ok:       true,
		},
		{
			name:  "not available",
			input: "N/A",
			ok:    false,
		},
		{
			name:  "no digits",
			input: "Free shipping",
			ok:    false,
		},
		{
			name:  "empty string",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParsePrice(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestContainsUSD(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "dollar sign", input: "$88.00", expected: true},
		{name: "us marker", input: "US 88.00", expected: true},
		{name: "both", input: "US $88.00", expected: true},
		{name: "euro only", input: "EUR 88,00", expected: false},
		{name: "us embedded in word", input: "AUS 88.00", expected: false},
		{name: "empty", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsUSD(tt.input); got != tt.expected {
				t.Errorf("ContainsUSD(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
