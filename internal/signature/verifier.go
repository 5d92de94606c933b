package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks gateway-supplied signatures. It is handed the already
// resolved secrets and never sees the live/test mode switch.
type Verifier struct {
	checkoutSecret []byte
	webhookSecret  []byte
}

func NewVerifier(checkoutSecret, webhookSecret string) *Verifier {
	return &Verifier{
		checkoutSecret: []byte(checkoutSecret),
		webhookSecret:  []byte(webhookSecret),
	}
}

// VerifyCheckoutSignature recomputes the HMAC-SHA256 over
// "<gatewayOrderID>|<gatewayPaymentID>" and compares in constant time.
// Malformed input is a mismatch, never an error.
func (v *Verifier) VerifyCheckoutSignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if gatewayOrderID == "" || gatewayPaymentID == "" {
		return false
	}
	return verify(v.checkoutSecret, []byte(gatewayOrderID+"|"+gatewayPaymentID), signature)
}

// VerifyWebhookSignature recomputes the HMAC-SHA256 over the exact raw body
// bytes as received on the wire. Re-serialized JSON must never be signed;
// canonicalization drift would break verification.
func (v *Verifier) VerifyWebhookSignature(rawBody []byte, signatureHeader string) bool {
	if len(rawBody) == 0 {
		return false
	}
	return verify(v.webhookSecret, rawBody, signatureHeader)
}

func verify(secret, message []byte, signature string) bool {
	want, err := hex.DecodeString(signature)
	if err != nil || len(want) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return hmac.Equal(mac.Sum(nil), want)
}

// Sign computes the hex HMAC-SHA256 the gateway would attach to message.
// Used by the test-mode checkout page and by tests.
func Sign(secret string, message []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
