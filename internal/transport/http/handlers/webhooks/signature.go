package webhookhandler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

const signatureVersion = "v0"

// MaxTimestampSkew bounds how old a signed request may be. Staleness is
// checked before the signature so a replayed request is rejected even when
// its signature is valid.
const MaxTimestampSkew = 300 * time.Second

var (
	ErrStaleTimestamp   = errors.New("webhook timestamp outside allowed window")
	ErrBadSignature     = errors.New("webhook signature mismatch")
	ErrMissingSignature = errors.New("webhook signature header missing")
)

// VerifySignature checks an HMAC-SHA256 signature over "v0:{timestamp}:{body}".
func VerifySignature(secret, timestamp string, body []byte, signature string, now time.Time) error {
	if signature == "" || timestamp == "" {
		return ErrMissingSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrStaleTimestamp
	}
	age := now.Sub(time.Unix(ts, 0))
	if age > MaxTimestampSkew || age < -MaxTimestampSkew {
		return ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signatureVersion + ":" + timestamp + ":"))
	mac.Write(body)
	expected := signatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}

// Sign produces the signature header value for a timestamp and body.
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signatureVersion + ":" + timestamp + ":"))
	mac.Write(body)
	return signatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}
