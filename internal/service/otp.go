package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// OTPLength is the number of digits in a generated code
	OTPLength = 6
	// OTPTTL is how long a code stays valid after generation. It is fixed,
	// not configurable.
	OTPTTL = 10 * time.Minute

	otpMin = 100000
	otpMax = 999999
)

// GenerateOTP returns a code drawn uniformly from [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}
