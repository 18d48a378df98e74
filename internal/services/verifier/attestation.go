package verifier

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const badgeTokenLength = 16

// Attestor derives the attestation hash and the shareable badge. The HMAC
// secret is fixed per process and never derived from submission data.
type Attestor struct {
	secret        []byte
	serviceDomain string
	serviceName   string
	token         func() (string, error)
}

type AttestorOption func(*Attestor)

// WithTokenSource replaces the random badge token generator.
func WithTokenSource(fn func() (string, error)) AttestorOption {
	return func(a *Attestor) { a.token = fn }
}

func NewAttestor(secret []byte, serviceDomain, serviceName string, opts ...AttestorOption) (*Attestor, error) {
	if len(secret) == 0 {
		return nil, errors.New("attestation secret is required")
	}
	if serviceDomain == "" {
		return nil, errors.New("service domain is required")
	}
	a := &Attestor{
		secret:        append([]byte(nil), secret...),
		serviceDomain: serviceDomain,
		serviceName:   serviceName,
		token:         func() (string, error) { return gonanoid.New(badgeTokenLength) },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Hash is the hex HMAC-SHA256 of the canonical configuration bytes.
func (a *Attestor) Hash(canonicalConfig []byte) string {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write(canonicalConfig)
	return hex.EncodeToString(mac.Sum(nil))
}

// Badge builds the verification URL and its Markdown link for one evaluation.
// Each call draws a fresh token.
func (a *Attestor) Badge(agentID string, score int) (badgeURL, markup string, err error) {
	tok, err := a.token()
	if err != nil {
		return "", "", fmt.Errorf("badge token: %w", err)
	}
	if len(tok) != badgeTokenLength {
		return "", "", fmt.Errorf("badge token: want %d chars, got %d", badgeTokenLength, len(tok))
	}
	badgeURL = fmt.Sprintf("https://%s/verify/%s/%s", a.serviceDomain, url.PathEscape(agentID), tok)
	markup = fmt.Sprintf("[🛡️ Verified by %s | Safety Score: %d/100](%s)", a.serviceName, score, badgeURL)
	return badgeURL, markup, nil
}
