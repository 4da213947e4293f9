// Package federated implements the relying-party side of an OAuth2 /
// OpenID Connect login flow. A Client exchanges an authorization code
// at the provider's token endpoint and verifies the returned ID token
// against the provider's published JWKS.
package federated

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/suinership/auth/pkg/jwtx"
)

var (
	ErrExchangeFailed = errors.New("federated: code exchange failed")
	ErrInvalidIDToken = errors.New("federated: invalid id token")
	ErrNoIDToken      = errors.New("federated: provider returned no id token")
)

// Config describes one upstream identity provider.
type Config struct {
	Name         string
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	JWKSURL      string
	RedirectURL  string
	Issuer       string
	Scopes       []string
}

// Identity is the verified subject extracted from a provider ID token.
type Identity struct {
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
}

// Token is the provider's token endpoint response.
type Token struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Scope        string
	ExpiresIn    int64
}

// Client talks to a single provider. Provider keys are cached in a
// KeySet and refetched when a token arrives signed with an unknown kid.
type Client struct {
	cfg        Config
	httpClient *http.Client
	keys       *jwtx.KeySet
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		keys:       jwtx.NewKeySet(),
	}
}

// Name returns the provider's configured name, e.g. "google".
func (c *Client) Name() string { return c.cfg.Name }

// AuthCodeURL builds the URL the browser is redirected to in order to
// start the login flow at the provider.
func (c *Client) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.cfg.ClientID)
	q.Set("redirect_uri", c.cfg.RedirectURL)
	q.Set("scope", strings.Join(c.cfg.Scopes, " "))
	q.Set("state", state)
	return c.cfg.AuthURL + "?" + q.Encode()
}

// Exchange swaps an authorization code for the provider's token set.
func (c *Client) Exchange(ctx context.Context, code string) (Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURL)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Token{}, fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IDToken      string `json:"id_token"`
		Scope        string `json:"scope"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	if payload.AccessToken == "" {
		return Token{}, fmt.Errorf("%w: missing access token", ErrExchangeFailed)
	}

	return Token{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		IDToken:      payload.IDToken,
		Scope:        payload.Scope,
		ExpiresIn:    payload.ExpiresIn,
	}, nil
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"email_verified"`
}

// VerifyIDToken checks the ID token's signature against the provider's
// JWKS and validates issuer, audience and expiry before returning the
// identity it asserts.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (Identity, error) {
	if idToken == "" {
		return Identity{}, ErrNoIDToken
	}

	claims, err := c.parseAndVerify(idToken)
	if errors.Is(err, jwtx.ErrNoKey) {
		// Provider may have rotated keys; fetch a fresh JWKS and retry once.
		if ferr := c.refreshKeys(ctx); ferr != nil {
			return Identity{}, ferr
		}
		claims, err = c.parseAndVerify(idToken)
	}
	if err != nil {
		return Identity{}, err
	}

	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing sub", ErrInvalidIDToken)
	}
	return Identity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		EmailVerified: claims.EmailVerified,
	}, nil
}

func (c *Client) parseAndVerify(idToken string) (*idTokenClaims, error) {
	if !c.keys.IsReady() {
		return nil, jwtx.ErrNoKey
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(c.cfg.Issuer),
		jwt.WithAudience(c.cfg.ClientID),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(idToken, &idTokenClaims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("%w: missing kid", ErrInvalidIDToken)
		}
		return c.keys.Get(kid)
	})
	if err != nil {
		if errors.Is(err, jwtx.ErrNoKey) {
			return nil, jwtx.ErrNoKey
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidIDToken, err)
	}

	claims, ok := token.Claims.(*idTokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidIDToken
	}
	return claims, nil
}

func (c *Client) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.JWKSURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("federated: fetch jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("federated: fetch jwks: status %d", resp.StatusCode)
	}

	var jwks jwtx.JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("federated: decode jwks: %w", err)
	}
	return c.keys.ResetFromJWKS(jwks)
}
