package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountCents(t *testing.T) {
	cases := []struct {
		price float64
		cents int64
	}{
		{0, 0},
		{10, 1000},
		{0.07, 7},
		{9.99, 999},
		{19.99, 1999},
		{29.99, 2999},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.cents, amountCents(tc.price), "price %v", tc.price)
	}
}
