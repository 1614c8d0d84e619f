package identity

import "context"

// User is the identity the provider vouches for. IDToken is the provider's
// session credential and never leaves the BFF.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	IDToken       string `json:"-"`
}

// Provider verifies credentials against the external identity service.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*User, error)
	// SignInWithCredential exchanges a federated (Google) id token.
	SignInWithCredential(ctx context.Context, idToken string) (*User, error)
	SignOut(ctx context.Context, user *User) error
}
