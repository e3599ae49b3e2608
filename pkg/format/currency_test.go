package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "$0.00"},
		{"Small amount", 12.5, "$12.50"},
		{"Thousands", 1234.56, "$1,234.56"},
		{"Millions", 1250000, "$1,250,000.00"},
		{"Negative", -1234.56, "-$1,234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestWholeCurrency(t *testing.T) {
	if got := WholeCurrency(850000.4); got != "$850,000" {
		t.Errorf("WholeCurrency() = %q, expected $850,000", got)
	}
	if got := WholeCurrency(-1500); got != "-$1,500" {
		t.Errorf("WholeCurrency() = %q, expected -$1,500", got)
	}
}

func TestPercentAndMultiple(t *testing.T) {
	if got := Percent(0.125); got != "12.5%" {
		t.Errorf("Percent(0.125) = %q, expected 12.5%%", got)
	}
	if got := Percent(-0.05); got != "-5.0%" {
		t.Errorf("Percent(-0.05) = %q, expected -5.0%%", got)
	}
	if got := Multiple(3.25); got != "3.25x" {
		t.Errorf("Multiple(3.25) = %q, expected 3.25x", got)
	}
}
