package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

func NewRefreshToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32 // 256 бит по умолчанию
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewOtpCode — равномерный числовой код заданной длины; первая цифра
// ненулевая (для 4 знаков — диапазон [1000, 9999]).
func NewOtpCode(digits int) (string, error) {
	if digits <= 0 {
		digits = 4
	}
	low := big.NewInt(1)
	for i := 1; i < digits; i++ {
		low.Mul(low, big.NewInt(10))
	}
	span := new(big.Int).Mul(low, big.NewInt(9))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return n.Add(n, low).String(), nil
}
