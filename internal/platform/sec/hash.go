// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when no account matches a login attempt so
// that unknown emails cost the same bcrypt round as wrong passwords.
var dummyHash = mustHash("world-travels-timing-equaliser")

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// bcrypt draws a fresh random salt on every call, so hashing the same
// password twice yields different digests.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// BurnPasswordCheck performs a comparison against a fixed digest and discards
// the result.
func BurnPasswordCheck(plainTextPassword string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plainTextPassword))
}

func mustHash(plainTextPassword string) string {
	hash, err := HashPassword(plainTextPassword)
	if err != nil {
		panic(err)
	}
	return hash
}
