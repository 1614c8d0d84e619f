package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"doctortravel/pkg/client"
)

const (
	signInWithPasswordPath = "/accounts:signInWithPassword"
	signInWithIdpPath      = "/accounts:signInWithIdp"
	lookupPath             = "/accounts:lookup"

	googleProviderID = "google.com"
	idpRequestURI    = "http://localhost"
)

// RESTProvider talks to the Identity Toolkit REST API.
type RESTProvider struct {
	http   *client.HttpClient
	apiKey string
}

func NewRESTProvider(baseURL, apiKey string, timeout time.Duration) *RESTProvider {
	return &RESTProvider{
		http:   client.NewHttpClient(baseURL, timeout),
		apiKey: apiKey,
	}
}

type signInResponse struct {
	LocalID       string `json:"localId"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	IDToken       string `json:"idToken"`
	EmailVerified bool   `json:"emailVerified"`
}

type lookupResponse struct {
	Users []struct {
		LocalID       string `json:"localId"`
		Email         string `json:"email"`
		DisplayName   string `json:"displayName"`
		EmailVerified bool   `json:"emailVerified"`
	} `json:"users"`
}

func (p *RESTProvider) SignInWithPassword(ctx context.Context, email, password string) (*User, error) {
	var signIn signInResponse
	err := p.post(ctx, signInWithPasswordPath, map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &signIn)
	if err != nil {
		return nil, err
	}

	// The password endpoint does not report verification status.
	return p.lookup(ctx, signIn.IDToken)
}

func (p *RESTProvider) SignInWithCredential(ctx context.Context, idToken string) (*User, error) {
	postBody := url.Values{}
	postBody.Set("id_token", idToken)
	postBody.Set("providerId", googleProviderID)

	var signIn signInResponse
	err := p.post(ctx, signInWithIdpPath, map[string]any{
		"postBody":            postBody.Encode(),
		"requestUri":          idpRequestURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &signIn)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:            signIn.LocalID,
		Email:         signIn.Email,
		DisplayName:   signIn.DisplayName,
		EmailVerified: signIn.EmailVerified,
		IDToken:       signIn.IDToken,
	}, nil
}

// SignOut is local only: Identity Toolkit id tokens are stateless and expire
// on their own.
func (p *RESTProvider) SignOut(context.Context, *User) error {
	return nil
}

func (p *RESTProvider) lookup(ctx context.Context, idToken string) (*User, error) {
	var resp lookupResponse
	if err := p.post(ctx, lookupPath, map[string]any{"idToken": idToken}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Users) == 0 {
		return nil, ErrInvalidCredentials
	}

	u := resp.Users[0]
	return &User{
		ID:            u.LocalID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		EmailVerified: u.EmailVerified,
		IDToken:       idToken,
	}, nil
}

func (p *RESTProvider) post(ctx context.Context, path string, body any, target any) error {
	if p.apiKey == "" {
		return ErrNotConfigured
	}

	resp, err := p.http.POST(ctx, path+"?key="+url.QueryEscape(p.apiKey), body)
	if err != nil {
		return fmt.Errorf("identity provider request failed: %w", err)
	}

	if !resp.IsSuccess() {
		return providerError(resp)
	}

	if err := resp.DecodeJSON(target); err != nil {
		return fmt.Errorf("failed to decode identity provider response: %w", err)
	}
	return nil
}

func providerError(resp *client.Response) error {
	message := client.GetErrorMessage(resp)
	code, _, _ := strings.Cut(message, " ")
	if sentinel, ok := providerErrors[code]; ok {
		return sentinel
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("identity provider unavailable: %w", &ProviderError{Status: resp.StatusCode, Message: message})
	}
	return &ProviderError{Status: resp.StatusCode, Message: message}
}

// IsRejection reports whether err means the credentials were refused, as
// opposed to the provider being unreachable.
func IsRejection(err error) bool {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Status < http.StatusInternalServerError
	}
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUserDisabled) ||
		errors.Is(err, ErrTooManyAttempts) ||
		errors.Is(err, ErrInvalidCredential)
}
