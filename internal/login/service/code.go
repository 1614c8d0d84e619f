package service

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	codeMin   = 100000
	codeRange = 900000
)

// Clock returns the current time.
type Clock func() time.Time

// CodeGenerator returns a new 6-digit verification code.
type CodeGenerator func() (string, error)

func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(codeMin+n.Int64(), 10), nil
}
