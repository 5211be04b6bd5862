// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
)

// codeAlphabet omits 0/O and 1/I so codes survive being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode returns a uniformly random code of the given length.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("auth: invalid code length %d", length)
	}

	limit := big.NewInt(int64(len(codeAlphabet)))
	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		index, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("auth: failed to read randomness: %w", err)
		}
		builder.WriteByte(codeAlphabet[index.Int64()])
	}

	return builder.String(), nil
}

// CodesEqual compares two codes in constant time, ignoring case.
func CodesEqual(expected, given string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(given))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(normalized)) == 1
}
