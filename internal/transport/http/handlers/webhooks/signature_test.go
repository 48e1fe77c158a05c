package webhookhandler

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestVerifySignatureAccepts(t *testing.T) {
	secret := "test-secret"
	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte(`payload={"type":"block_actions"}`)

	sig := Sign(secret, ts, body)
	if err := VerifySignature(secret, ts, body, sig, now); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerifySignatureRejectsTampered(t *testing.T) {
	secret := "test-secret"
	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)

	sig := Sign(secret, ts, []byte("original body"))
	err := VerifySignature(secret, ts, []byte("tampered body"), sig, now)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte("body")

	sig := Sign("other-secret", ts, body)
	if err := VerifySignature("test-secret", ts, body, sig, now); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerifySignatureRejectsStaleEvenWhenValid(t *testing.T) {
	secret := "test-secret"
	now := time.Now()
	stale := now.Add(-301 * time.Second)
	ts := strconv.FormatInt(stale.Unix(), 10)
	body := []byte("body")

	// The signature itself is correct; only the age should fail it.
	sig := Sign(secret, ts, body)
	err := VerifySignature(secret, ts, body, sig, now)
	if !errors.Is(err, ErrStaleTimestamp) {
		t.Fatalf("expected ErrStaleTimestamp, got %v", err)
	}
}

func TestVerifySignatureRejectsFutureTimestamp(t *testing.T) {
	secret := "test-secret"
	now := time.Now()
	future := now.Add(301 * time.Second)
	ts := strconv.FormatInt(future.Unix(), 10)
	body := []byte("body")

	sig := Sign(secret, ts, body)
	if err := VerifySignature(secret, ts, body, sig, now); !errors.Is(err, ErrStaleTimestamp) {
		t.Fatalf("expected ErrStaleTimestamp, got %v", err)
	}
}

func TestVerifySignatureWithinWindow(t *testing.T) {
	secret := "test-secret"
	now := time.Now()
	recent := now.Add(-299 * time.Second)
	ts := strconv.FormatInt(recent.Unix(), 10)
	body := []byte("body")

	sig := Sign(secret, ts, body)
	if err := VerifySignature(secret, ts, body, sig, now); err != nil {
		t.Fatalf("expected signature within window to pass, got %v", err)
	}
}

func TestVerifySignatureMissingHeaders(t *testing.T) {
	now := time.Now()
	if err := VerifySignature("secret", "", []byte("body"), "", now); !errors.Is(err, ErrMissingSignature) {
		t.Fatalf("expected ErrMissingSignature, got %v", err)
	}
}

func TestVerifySignatureGarbageTimestamp(t *testing.T) {
	now := time.Now()
	if err := VerifySignature("secret", "not-a-number", []byte("body"), "v0=abc", now); !errors.Is(err, ErrStaleTimestamp) {
		t.Fatalf("expected ErrStaleTimestamp for garbage timestamp, got %v", err)
	}
}
