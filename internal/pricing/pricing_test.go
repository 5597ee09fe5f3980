package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		weight    string
		deduction string
		price     string
		want      int64
	}{
		{"deduction applied", "100", "2", "10", 980},
		{"missing weight", "", "5", "10", 0},
		{"missing deduction treated as zero", "10", "", "5", 50},
		{"invalid weight", "abc", "0", "10", 0},
		{"invalid price", "10", "0", "x", 0},
		{"invalid deduction treated as zero", "10", "x", "5", 50},
		{"half rounds away from zero", "10", "0", "10.05", 101},
		{"negative half rounds away from zero", "-10", "0", "10.05", -101},
		{"rounds down below half", "10", "0", "10.04", 100},
		{"whitespace trimmed", " 100 ", " 2 ", " 10 ", 980},
		{"zero weight", "0", "0", "10", 0},
		{"fractional everything", "12.5", "4", "3.2", 38},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.weight, tt.deduction, tt.price))
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	first := Calculate("123.45", "3.5", "9.99")
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Calculate("123.45", "3.5", "9.99"))
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 12.5, Number("12.5"))
	assert.Equal(t, 0.0, Number(""))
	assert.Equal(t, 0.0, Number("n/a"))
	assert.Equal(t, -3.0, Number("-3"))
}
