package adminauth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyosobang/passgate/pkg/config"
)

var (
	// ErrBadCredentials: the submitted admin password does not match.
	ErrBadCredentials = errors.New("adminauth: bad credentials")
	// ErrInvalidToken covers malformed, forged, and expired session tokens.
	ErrInvalidToken = errors.New("adminauth: invalid token")
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service replaces the legacy client-side password compare with a
// server-issued, expiring session token. The shared password lives in config
// as a bcrypt hash; a successful login yields an HS256 JWT the admin client
// sends as a Bearer token.
type Service struct {
	log        *zap.SugaredLogger
	secret     []byte
	hash       []byte
	sessionTTL time.Duration
}

func NewService(cfg *config.Config, log *zap.SugaredLogger) *Service {
	ttl := cfg.Admin.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		log:        log,
		secret:     []byte(cfg.Admin.JWTSecret),
		hash:       []byte(cfg.Admin.PasswordHash),
		sessionTTL: ttl,
	}
}

// Login verifies the shared admin password and issues a session token.
func (s *Service) Login(password string) (token string, expiresAt time.Time, err error) {
	if len(s.hash) == 0 {
		return "", time.Time{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return "", time.Time{}, ErrBadCredentials
	}

	now := time.Now()
	expiresAt = now.Add(s.sessionTTL)
	claims := Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "passgate",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate checks a Bearer token and returns its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != "admin" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
