package utils

import "testing"

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"formatted string", "£1,234.50", 1234.5},
		{"plain number", 1234.5, 1234.5},
		{"integer", 1200, 1200},
		{"int64", int64(850), 850},
		{"bare string", "950.25", 950.25},
		{"thousands only", "£12,000", 12000},
		{"negative", "-£50.00", -50},
		{"whitespace padded", "  £99.99 ", 99.99},
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"garbage", "TBC", 0},
		{"unexpected type", []string{"£5"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMoney(tt.in); got != tt.want {
				t.Errorf("ParseMoney(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
