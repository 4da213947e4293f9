package domain

import "time"

// TokenPair is the result of a successful authentication. Both tokens are
// self-contained signed JWTs; there is no server-side token record.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration // access token lifetime
}
