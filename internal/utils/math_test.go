package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModulo(t *testing.T) {
	tests := []struct {
		name string
		n    int
		base int
		want int
	}{
		{"positive", 7, 3, 1},
		{"negative dividend", -7, 3, 2},
		{"negative base", 7, -3, 1},
		{"both negative", -7, -3, 2},
		{"exact multiple", -9, 3, 0},
		{"zero dividend", 0, 5, 0},
		{"weekday wrap", -1, 7, 6},
		{"large base", math.MaxInt - 1, math.MaxInt, math.MaxInt - 1},
		{"large base negative dividend", -1, math.MaxInt, math.MaxInt - 1},
		{"max dividend", math.MaxInt, math.MaxInt, 0},
		{"min base", 1, math.MinInt, 1},
		{"min base negative dividend", -1, math.MinInt, math.MaxInt},
		{"min dividend", math.MinInt, 7, 6},
		{"min dividend min base", math.MinInt, math.MinInt, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Modulo(tt.n, tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModuloRangeAndCongruence(t *testing.T) {
	for n := -50; n <= 50; n++ {
		for base := -12; base <= 12; base++ {
			if base == 0 {
				continue
			}
			got, err := Modulo(n, base)
			require.NoError(t, err)

			abs := base
			if abs < 0 {
				abs = -abs
			}
			assert.GreaterOrEqual(t, got, 0)
			assert.Less(t, got, abs)
			assert.Equal(t, 0, (n-got)%abs, "n=%d base=%d got=%d", n, base, got)
		}
	}
}

func TestModuloDivisionByZero(t *testing.T) {
	_, err := Modulo(5, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}
