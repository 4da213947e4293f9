package http

import (
	"net/http"

	"github.com/suinership/auth/internal/auth/domain"
	"github.com/suinership/auth/internal/auth/service"
	"github.com/suinership/auth/pkg/httpx"
)

// FederatedHandler runs provider-delegated login and signup.
type FederatedHandler struct {
	FederatedService *service.FederatedService
}

// HandleStart handles GET /v1/auth/federated/start
//
//	@Summary		Start a federated login
//	@Description	Redirects the browser to the identity provider's
//	@Description	authorization endpoint.
//	@Tags			Federated
//	@Param			state	query	string	false	"Opaque anti-forgery state returned on the callback"
//	@Success		302
//	@Router			/v1/auth/federated/start [get].
func (h *FederatedHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	http.Redirect(w, r, h.FederatedService.AuthURL(state), http.StatusFound)
}

// HandleLogin handles POST /v1/auth/federated/login
//
//	@Summary		Log in via an identity provider
//	@Description	Exchanges the provider authorization code, verifies the ID
//	@Description	token, and signs in the existing local account.
//	@Tags			Federated
//	@Accept			json
//	@Produce		json
//	@Param			request	body		federatedCodeRequest	true	"Authorization code"
//	@Success		200		{object}	FederatedLoginResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Provider error"
//	@Failure		404		{object}	httpx.ErrorResponse	"No local account for this identity"
//	@Router			/v1/auth/federated/login [post].
func (h *FederatedHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code, ok := h.decodeCode(w, r)
	if !ok {
		return
	}

	pair, user, err := h.FederatedService.Login(ctx, code)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeFederatedResponse(w, http.StatusOK, pair, user)
}

// HandleSignUp handles POST /v1/auth/federated/signup
//
//	@Summary		Sign up via an identity provider
//	@Description	Exchanges the provider authorization code, verifies the ID
//	@Description	token, and creates a password-less local account bound to
//	@Description	the provider identity.
//	@Tags			Federated
//	@Accept			json
//	@Produce		json
//	@Param			request	body		federatedCodeRequest	true	"Authorization code"
//	@Success		201		{object}	FederatedLoginResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Provider error or identity already registered"
//	@Router			/v1/auth/federated/signup [post].
func (h *FederatedHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code, ok := h.decodeCode(w, r)
	if !ok {
		return
	}

	pair, user, err := h.FederatedService.SignUp(ctx, code)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeFederatedResponse(w, http.StatusCreated, pair, user)
}

func (h *FederatedHandler) decodeCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req federatedCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return "", false
	}
	if req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Authorization code is required.")
		return "", false
	}
	return req.Code, true
}

func writeFederatedResponse(w http.ResponseWriter, code int, pair domain.TokenPair, user domain.User) {
	httpx.WriteJSON(w, code, FederatedLoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
		Profile: ProfileResponse{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
		},
	})
}
