package usecase

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// verificationCodeTTL is how long a verification code stays valid.
const verificationCodeTTL = time.Hour

// generateVerificationCode returns a 6-digit numeric code sampled uniformly
// from [100000, 999999], so it never needs zero padding.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// verificationCodeExpiry returns the expiry timestamp for a code generated now.
func verificationCodeExpiry() time.Time {
	return time.Now().Add(verificationCodeTTL)
}
