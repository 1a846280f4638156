package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/propmarket/backend/pkg/logger"
	"golang.org/x/oauth2"
)

const (
	googleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"
	googleIssuer   = "https://accounts.google.com"
)

var googleIssuers = map[string]bool{
	"https://accounts.google.com": true,
	"accounts.google.com":         true,
}

var ErrIdentityUnavailable = errors.New("external sign-in is not configured")

// ExternalIdentity is what a verified ID token says about its holder.
type ExternalIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type IdentityVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*ExternalIdentity, error)
}

// GoogleVerifier checks Google ID tokens against Google's published keys.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewGoogleVerifier(ctx context.Context, clientID string) *GoogleVerifier {
	return newGoogleVerifier(oidc.NewRemoteKeySet(ctx, googleCertsURL), clientID)
}

func newGoogleVerifier(keySet oidc.KeySet, clientID string) *GoogleVerifier {
	verifier := oidc.NewVerifier(googleIssuer, keySet, &oidc.Config{
		ClientID:        clientID,
		SkipIssuerCheck: true,
	})
	return &GoogleVerifier{verifier: verifier}
}

func (g *GoogleVerifier) Verify(ctx context.Context, rawIDToken string) (*ExternalIdentity, error) {
	token, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !googleIssuers[token.Issuer] {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidCredentials, token.Issuer)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	return &ExternalIdentity{
		Subject:       token.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}

// GoogleOAuth runs the authorization code flow and verifies the ID token
// returned with the access token.
type GoogleOAuth struct {
	config   *oauth2.Config
	verifier IdentityVerifier
}

func NewGoogleOAuth(config *oauth2.Config, verifier IdentityVerifier) *GoogleOAuth {
	return &GoogleOAuth{config: config, verifier: verifier}
}

func (g *GoogleOAuth) GenerateState() (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(nonce), nil
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*ExternalIdentity, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		logger.Warn("oauth_exchange_failed", map[string]interface{}{
			"provider": "google",
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: failed to exchange code for token", ErrInvalidCredentials)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: token response carried no id_token", ErrInvalidCredentials)
	}
	return g.verifier.Verify(ctx, rawIDToken)
}
