// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// DefaultVerificationCodeTTL applies when the service is built without an explicit TTL.
	DefaultVerificationCodeTTL = 15 * time.Minute

	// MaxPasswordLength is bcrypt's input ceiling in bytes.
	MaxPasswordLength = 72
)

// # Log Events

const (
	EventAccountRegistered     = "account_registered"
	EventLoginSucceeded        = "login_succeeded"
	EventLoginRejected         = "login_rejected"
	EventLoggedOut             = "logged_out"
	EventVerificationIssued    = "verification_code_issued"
	EventVerificationConfirmed = "verification_code_confirmed"
)
