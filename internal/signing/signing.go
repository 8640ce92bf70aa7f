// Package signing computes the HMAC-SHA256 values the Graph API uses for
// appsecret_proof and webhook payload signatures.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex encoded HMAC-SHA256 of msg keyed with secret.
func Sum(secret string, msg []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(msg)
	return hex.EncodeToString(h.Sum(nil))
}

// AppSecretProof returns the appsecret_proof parameter for accessToken.
func AppSecretProof(accessToken, appSecret string) string {
	return Sum(appSecret, []byte(accessToken))
}

// SignatureHeader is the header carrying the webhook payload signature.
const SignatureHeader = "X-Hub-Signature-256"

// Verify reports whether header, in the form "sha256=<hex>", matches the
// signature of body.
func Verify(secret string, body []byte, header string) bool {
	got, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	want := Sum(secret, body)
	return hmac.Equal([]byte(strings.ToLower(got)), []byte(want))
}

// Sign returns the header value Verify accepts for body.
func Sign(secret string, body []byte) string { return "sha256=" + Sum(secret, body) }
