// Package luhn validates card numbers with the Luhn (mod 10) checksum.
//
// Digits are indexed from the most significant one. Every second digit, starting
// with the one left of the check digit, is doubled (minus nine when the result has
// two digits). The check digit must equal nine times the sum of the remaining
// digits, modulo ten.
package luhn

import (
	"errors"
	"fmt"
)

// ErrEmptyPayload is returned by CheckDigit for an empty payload.
var ErrEmptyPayload = errors.New("luhn: empty payload")

// Valid reports whether cardNumber consists solely of ASCII digits and carries a
// correct Luhn check digit. Empty input is never valid.
//
// A single digit has nothing to double and nothing to sum, so "0" is the only
// valid one-digit number.
func Valid(cardNumber string) bool {
	digits, ok := parseDigits(cardNumber)
	if !ok || len(digits) == 0 {
		return false
	}

	last := len(digits) - 1
	return checksum(digits[:last]) == digits[last]
}

// CheckDigit returns the digit that makes payload followed by that digit a valid
// number.
func CheckDigit(payload string) (int, error) {
	if payload == "" {
		return 0, ErrEmptyPayload
	}
	digits, ok := parseDigits(payload)
	if !ok {
		return 0, fmt.Errorf("luhn: payload %q contains a non-digit", payload)
	}
	return checksum(digits), nil
}

// checksum computes the expected check digit for the digits preceding it. The
// slice is modified in place.
func checksum(payload []int) int {
	for i := len(payload) - 1; i >= 0; i -= 2 {
		payload[i] *= 2
		if payload[i] >= 10 {
			payload[i] -= 9
		}
	}

	sum := 0
	for _, d := range payload {
		sum += d
	}
	return sum * 9 % 10
}

func parseDigits(s string) ([]int, bool) {
	digits := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, false
		}
		digits[i] = int(c - '0')
	}
	return digits, true
}
