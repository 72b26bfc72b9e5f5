package google

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"

	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

var (
	ErrNoClientID       = errors.New("google client id not configured")
	ErrEmailNotVerified = errors.New("google account email is not verified")
)

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// Verifier checks Google ID tokens against the OAuth client id.
type Verifier struct {
	clientID string
	validate validateFunc
}

var _ ports.IdentityVerifier = (*Verifier)(nil)

func NewVerifier(clientID string) *Verifier {
	return &Verifier{clientID: clientID, validate: idtoken.Validate}
}

// Verify validates signature, expiry and audience, then extracts the email
// and display name.
func (v *Verifier) Verify(ctx context.Context, token string) (*ports.ExternalIdentity, error) {
	if v.clientID == "" {
		return nil, ErrNoClientID
	}

	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("validate id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("id token has no email claim")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, ErrEmailNotVerified
	}
	name, _ := payload.Claims["name"].(string)

	return &ports.ExternalIdentity{Email: email, Name: name}, nil
}
