package webhooks

import (
	"testing"
)

func TestSign(t *testing.T) {
	secret := "secret"
	payload := []byte("payload")

	// Calculated using: echo -n "payload" | openssl dgst -sha256 -hmac "secret"
	expected := "b82fcb791acec57859b989b430a826488ce2e479fdf92326bd0a2e8375a42ba4"

	got := Sign(secret, payload)

	if got != expected {
		t.Errorf("Sign() = %v, want %v", got, expected)
	}
}

func TestVerify(t *testing.T) {
	secret := "secret"
	payload := []byte(`{"action":"read"}`)

	sig := Sign(secret, payload)

	if !Verify(secret, payload, sig) {
		t.Error("Valid signature rejected")
	}
	if Verify(secret, payload, "deadbeef") {
		t.Error("Bogus signature accepted")
	}
	if Verify(secret, []byte(`{"action":"publish"}`), sig) {
		t.Error("Signature accepted for a different payload")
	}
	if Verify("other-secret", payload, sig) {
		t.Error("Signature accepted under a different secret")
	}
}
