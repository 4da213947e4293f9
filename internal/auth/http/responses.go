package http

// Request and response bodies for the auth API. Kept in one place so the
// swagger annotations and tests reference the same shapes.

type registerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// RegisterResponse is returned on successful account creation.
type RegisterResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPairResponse carries a freshly issued access/refresh pair.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// MFAChallengeResponse is returned when password verification succeeded but
// the account requires a TOTP code to finish logging in.
type MFAChallengeResponse struct {
	MFARequired bool   `json:"mfa_required"`
	MFAToken    string `json:"mfa_token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AccessTokenResponse carries a new access token minted from a refresh token.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type resetRequestRequest struct {
	Email string `json:"email"`
}

// ResetRequestResponse acknowledges a password reset request. The token is
// also delivered out of band.
type ResetRequestResponse struct {
	Token string `json:"token"`
}

type resetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type otpRequestRequest struct {
	Email string `json:"email"`
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type federatedCodeRequest struct {
	Code string `json:"code"`
}

// FederatedLoginResponse pairs the issued tokens with the profile of the
// account that was signed in or created.
type FederatedLoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	Profile      ProfileResponse `json:"profile"`
}

// ProfileResponse is the public slice of a user record.
type ProfileResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type mfaVerifyRequest struct {
	MFAToken string `json:"mfa_token"`
	Code     string `json:"code"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

// MFAEnrollResponse carries provisioning material for an authenticator app.
type MFAEnrollResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service health for the probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks breaks readiness down per dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Secrets  string `json:"secrets"`
	Signer   string `json:"signer"`
}
