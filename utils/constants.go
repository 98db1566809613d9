// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// AuthTokenTTL is how long an issued access token stays valid.
const AuthTokenTTL = 30 * 24 * time.Hour

// OTPPrefix is the prefix used for pending one-time code records.
const OTPPrefix = "otp:"

// OTPTTL is how long a sent code stays valid.
const OTPTTL = 5 * time.Minute

// OTPLength is the number of digits in a one-time code.
const OTPLength = 6
