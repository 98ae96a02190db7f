// Package token mints and checks the per-attempt exam access token: the
// capability string required on every action after instructions are opened.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

// Issuer produces exam access tokens as a keyed MAC over
// (quiz id, user id, issue timestamp). The key keeps the token
// unforgeable from public fields alone; the token itself carries no
// expiry — attempt termination is the only invalidation event.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret []byte) *Issuer {
	return &Issuer{secret: secret}
}

// Issue returns the hex-encoded HMAC-SHA256 digest for the attempt
// identity tuple. Deterministic: the same inputs always yield the same
// token, so the stored copy is the authority.
func (i *Issuer) Issue(quizID, userID uint, issuedAt time.Time) string {
	mac := hmac.New(sha256.New, i.secret)
	fmt.Fprintf(mac, "%d-%d-%s", quizID, userID, issuedAt.Format(time.RFC3339Nano))
	return hex.EncodeToString(mac.Sum(nil))
}

// Matches compares a presented token against the stored one in constant
// time. State checks (attempt exists, not terminal) belong to the caller.
func Matches(stored, presented string) bool {
	if stored == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
