package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// GeneratePasswordFromUserId generates a deterministic shorter password
// from a portal user id using HMAC-SHA256. Used when crew accounts are
// auto-provisioned from the CRM import: the importer and the portal can
// both derive the initial password without storing it anywhere.
//
// Parameters:
//   - userId: the portal user id (e.g. "cr__42")
//   - secret: a secret key from configuration
//   - nBytes: number of bytes to keep from the HMAC (e.g. 12 or 16)
func GeneratePasswordFromUserId(userId, secret string, nBytes int) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(userId))
	sum := mac.Sum(nil)
	if nBytes <= 0 || nBytes > len(sum) {
		nBytes = 16
	}
	short := sum[:nBytes]
	// base64url without padding, safe for most systems
	return base64.RawURLEncoding.EncodeToString(short)
}
