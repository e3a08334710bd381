package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/comanda/backend/internal/infrastructure/config"
)

// WebhookVerifier checks the HMAC-SHA256 signature the payment
// collaborator attaches to webhook deliveries. The stub provider used
// in development carries no secret and accepts everything.
type WebhookVerifier struct {
	secret []byte
}

// NewWebhookVerifier creates a verifier from the payment configuration
func NewWebhookVerifier(cfg *config.PaymentConfig) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(cfg.WebhookSecret)}
}

// Verify reports whether signature matches the hex HMAC-SHA256 of body
func (v *WebhookVerifier) Verify(body []byte, signature string) bool {
	if len(v.secret) == 0 {
		return true
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
