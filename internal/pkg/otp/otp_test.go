package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_LengthAndDigits(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		code, err := Generate(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "code %q contains non-digit", code)
		}
	}
}

func TestGenerate_KeepsLeadingZeros(t *testing.T) {
	// Statistically some of these start with zero; all must keep full length.
	for i := 0; i < 200; i++ {
		code, err := Generate(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
	}
}

func TestGenerate_RejectsBadLength(t *testing.T) {
	_, err := Generate(2)
	assert.Error(t, err)
	_, err = Generate(20)
	assert.Error(t, err)
}
