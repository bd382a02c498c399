// Package signature verifies webhook authenticity for the payment platform.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Verify computes HMAC-SHA256 over the exact raw request body keyed by the
// shared secret, base64-encodes the digest, and compares it to the header
// value in constant time. Empty body, header, or secret always fails.
// The body must be the unparsed request bytes; re-serializing a decoded
// payload produces a different signature.
func Verify(body []byte, header, secret string) bool {
	if len(body) == 0 || header == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(header))
}
