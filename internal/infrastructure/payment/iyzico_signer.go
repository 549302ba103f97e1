package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

// IyzicoSigner produces the IYZWS authorization for a request.
// The digest is base64(HMAC-SHA256(secretKey, nonce + path + body)).
type IyzicoSigner struct {
	apiKey    string
	secretKey string
}

// NewIyzicoSigner creates a signer for the given merchant keys
func NewIyzicoSigner(apiKey, secretKey string) IyzicoSigner {
	return IyzicoSigner{apiKey: apiKey, secretKey: secretKey}
}

// Digest returns the base64 encoded signature of nonce + path + body
func (s IyzicoSigner) Digest(nonce, path string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(s.secretKey))
	mac.Write([]byte(nonce))
	mac.Write([]byte(path))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Authorization returns the Authorization header value for a signed request
func (s IyzicoSigner) Authorization(nonce, path string, body []byte) string {
	return "IYZWS " + s.apiKey + ":" + s.Digest(nonce, path, body)
}

// newNonce returns a random alphanumeric string for the x-iyzi-rnd header
func newNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
