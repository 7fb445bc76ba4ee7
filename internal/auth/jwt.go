package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"workspace/internal/domain"
	"workspace/internal/domain/services"
)

// workspaceClaims are the claims a workspace token must carry.
type workspaceClaims struct {
	jwt.RegisteredClaims
	UserID *int64 `json:"user_id"`
}

// JWTResolver resolves identities from Bearer tokens signed by a key in a JWKS.
type JWTResolver struct {
	jwks   keyfunc.Keyfunc
	parser *jwt.Parser
	cancel context.CancelFunc
	logger *slog.Logger
}

// JWTOptions configures token validation. Empty Issuer or Audience is not checked.
type JWTOptions struct {
	JWKSURL  string
	Issuer   string
	Audience string
}

// NewJWTResolver creates a resolver that fetches public keys from opts.JWKSURL.
// keyfunc refreshes the key set in the background until Close is called.
func NewJWTResolver(opts JWTOptions, logger *slog.Logger) (*JWTResolver, error) {
	if opts.JWKSURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{opts.JWKSURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	// Allow only RS256 or ES256 to prevent algorithm confusion
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256", "ES256"})}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}

	logger.Info("JWT resolver initialized", "jwks_url", opts.JWKSURL)

	return &JWTResolver{
		jwks:   jwks,
		parser: jwt.NewParser(parserOpts...),
		cancel: cancel,
		logger: logger,
	}, nil
}

// Resolve verifies the Bearer token and returns its user_id claim.
func (r *JWTResolver) Resolve(_ context.Context, creds services.Credentials) (int32, error) {
	tokenString, ok := bearerToken(creds.Authorization)
	if !ok {
		return 0, &domain.UnauthorizedError{Message: "bearer token required"}
	}

	claims := &workspaceClaims{}
	token, err := r.parser.ParseWithClaims(tokenString, claims, r.jwks.Keyfunc)
	if err != nil || !token.Valid {
		r.logger.Debug("token rejected", "error", err)
		return 0, &domain.UnauthorizedError{Message: "invalid token"}
	}

	if claims.UserID == nil || *claims.UserID < 0 || *claims.UserID > math.MaxInt32 {
		r.logger.Debug("token missing user_id claim", "subject", claims.Subject)
		return 0, &domain.UnauthorizedError{Message: "token has no valid user_id"}
	}

	return int32(*claims.UserID), nil
}

// Close stops the background JWKS refresh.
func (r *JWTResolver) Close() error {
	r.cancel()
	r.logger.Info("JWT resolver closed")
	return nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
