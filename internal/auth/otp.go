package auth

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	OTPLength      = 6
	otpDigits      = "0123456789"
	usernameSuffix = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateOTP возвращает 6 цифр, каждая выбрана независимо из 0-9
// (ведущие нули допустимы).
func GenerateOTP() (string, error) {
	return randomString(otpDigits, OTPLength)
}

// IsOTPFormat - ровно 6 ASCII цифр.
func IsOTPFormat(code string) bool {
	if len(code) != OTPLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// GenerateUsername - первые 8 символов локальной части email + 4 случайных [a-z0-9].
func GenerateUsername(email string) (string, error) {
	local := strings.ToLower(email)
	if at := strings.IndexByte(local, '@'); at >= 0 {
		local = local[:at]
	}
	if len(local) > 8 {
		local = local[:8]
	}
	suffix, err := randomString(usernameSuffix, 4)
	if err != nil {
		return "", err
	}
	return local + suffix, nil
}

func randomString(alphabet string, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String(), nil
}
