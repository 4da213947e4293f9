package service_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/suinership/auth/internal/auth/secrets"
	"github.com/suinership/auth/internal/auth/service"
	"github.com/suinership/auth/internal/auth/store"
)

var otpCodeRe = regexp.MustCompile(`\b\d{6}\b`)

func requestOTPCode(t *testing.T, e *env, email string) string {
	t.Helper()
	require.NoError(t, e.otp.Request(context.Background(), email))

	code := otpCodeRe.FindString(e.sent.last(t).Body)
	require.Len(t, code, 6, "notification carries the 6-digit code")
	return code
}

func TestOTPRequestUnknownEmail(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	require.ErrorIs(t, e.otp.Request(ctx, "nobody@x.com"), store.ErrNotFound)
}

func TestOTPRequestInactiveUser(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	u := e.register(t, "a@x.com", "A", "Pw12345!")
	require.NoError(t, e.st.Users().SetActive(ctx, u.ID, false))

	require.ErrorIs(t, e.otp.Request(ctx, "a@x.com"), store.ErrNotFound)
}

func TestOTPLoginFlow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	u := e.register(t, "a@x.com", "A", "Pw12345!")
	code := requestOTPCode(t, e, "a@x.com")

	pair, err := e.otp.Verify(ctx, "a@x.com", code)
	require.NoError(t, err)
	requireValidPair(t, e, pair, u.ID)

	// Codes are single use.
	_, err = e.otp.Verify(ctx, "a@x.com", code)
	require.ErrorIs(t, err, service.ErrInvalidOTP)
}

func TestOTPVerifyWrongCode(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	u := e.register(t, "a@x.com", "A", "Pw12345!")
	code := requestOTPCode(t, e, "a@x.com")

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err := e.otp.Verify(ctx, "a@x.com", wrong)
	require.ErrorIs(t, err, service.ErrInvalidOTP)

	// A failed attempt does not burn the pending code.
	pair, err := e.otp.Verify(ctx, "a@x.com", code)
	require.NoError(t, err)
	requireValidPair(t, e, pair, u.ID)
}

func TestOTPVerifyWithoutRequest(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	e.register(t, "a@x.com", "A", "Pw12345!")

	_, err := e.otp.Verify(ctx, "a@x.com", "123456")
	require.ErrorIs(t, err, service.ErrInvalidOTP)
}

func TestOTPCodeExpires(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.otp.CodeTTL = shortTTL()

	e.register(t, "a@x.com", "A", "Pw12345!")
	code := requestOTPCode(t, e, "a@x.com")

	time.Sleep(shortTTL() + 20*time.Millisecond)

	_, err := e.otp.Verify(ctx, "a@x.com", code)
	require.ErrorIs(t, err, service.ErrInvalidOTP)
}

func TestOTPNewRequestOverwrites(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	e.register(t, "a@x.com", "A", "Pw12345!")
	first := requestOTPCode(t, e, "a@x.com")
	requestOTPCode(t, e, "a@x.com")

	// Only the newest code for the email remains valid.
	stored, err := e.sec.Get(ctx, secrets.OTPKey("a@x.com"))
	require.NoError(t, err)

	if first != stored {
		_, err := e.otp.Verify(ctx, "a@x.com", first)
		require.ErrorIs(t, err, service.ErrInvalidOTP)
	}

	pair, err := e.otp.Verify(ctx, "a@x.com", stored)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
}
