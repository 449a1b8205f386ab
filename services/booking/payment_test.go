package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInCents(t *testing.T) {
	cases := map[float64]int64{
		50:    5000,
		19.99: 1999,
		0.29:  29,
		64.1:  6410,
		0:     0,
	}
	for amount, want := range cases {
		assert.Equal(t, want, amountInCents(amount), "amount %v", amount)
	}
}
