package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOtpCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := NewOtpCode(4)
		require.NoError(t, err)
		require.Len(t, code, 4)
		// диапазон [1000, 9999]: ведущего нуля не бывает
		assert.NotEqual(t, byte('0'), code[0])
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "код должен состоять из цифр: %q", code)
		}
	}

	// некорректная длина падает на дефолт
	code, err := NewOtpCode(0)
	require.NoError(t, err)
	assert.Len(t, code, 4)

	code, err = NewOtpCode(6)
	require.NoError(t, err)
	require.Len(t, code, 6)
	assert.NotEqual(t, byte('0'), code[0])
}

func TestNewRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(32)
	require.NoError(t, err)
	assert.Len(t, a, 64) // hex: два символа на байт

	b, err := NewRefreshToken(0)
	require.NoError(t, err)
	assert.Len(t, b, 64)
	assert.NotEqual(t, a, b)
}
