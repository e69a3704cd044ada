package adminauth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyosobang/passgate/pkg/config"
)

func newTestService(t *testing.T, password string, ttl time.Duration) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := &config.Config{Admin: config.AdminConfig{
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
		SessionTTL:   ttl,
	}}
	return NewService(cfg, zap.NewNop().Sugar())
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestService(t, "hunter2", time.Hour)

	token, expiresAt, err := svc.Login("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, "passgate", claims.Issuer)
}

func TestLogin_BadPassword(t *testing.T) {
	svc := newTestService(t, "hunter2", time.Hour)

	_, _, err := svc.Login("wrong")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogin_EmptyHashNeverSucceeds(t *testing.T) {
	svc := NewService(&config.Config{}, zap.NewNop().Sugar())

	_, _, err := svc.Login("")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestValidate_ExpiredToken(t *testing.T) {
	svc := newTestService(t, "hunter2", time.Millisecond)

	token, _, err := svc.Login("hunter2")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	svc := newTestService(t, "hunter2", time.Hour)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.Validate(forged)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongRole(t *testing.T) {
	svc := newTestService(t, "hunter2", time.Hour)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "kiosk",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	svc := newTestService(t, "hunter2", time.Hour)
	_, err := svc.Validate("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}
