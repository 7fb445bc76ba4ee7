package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"workspace/internal/domain"
	"workspace/internal/domain/services"
)

const (
	testIssuer   = "workspace-auth"
	testAudience = "workspace-api"
)

func newTestJWTResolver(t *testing.T) (*JWTResolver, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	jwksServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{
				{
					"kty": "RSA",
					"kid": "kid-1",
					"alg": "RS256",
					"use": "sig",
					"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
					"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
				},
			},
		})
	}))
	t.Cleanup(jwksServer.Close)

	r, err := NewJWTResolver(JWTOptions{JWKSURL: jwksServer.URL, Issuer: testIssuer, Audience: testAudience}, discardLogger())
	if err != nil {
		t.Fatalf("NewJWTResolver: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r, key
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	token.Header["kid"] = "kid-1"
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":     "user-9",
		"user_id": 9,
		"iss":     testIssuer,
		"aud":     testAudience,
		"exp":     time.Now().Add(time.Minute).Unix(),
		"iat":     time.Now().Unix(),
	}
}

func TestJWTResolver_Resolve(t *testing.T) {
	r, key := newTestJWTResolver(t)
	token := signToken(t, jwt.SigningMethodRS256, key, validClaims())

	userID, err := r.Resolve(context.Background(), services.Credentials{Authorization: "Bearer " + token})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if userID != 9 {
		t.Errorf("userID = %d, want 9", userID)
	}
}

func TestJWTResolver_Rejects(t *testing.T) {
	r, key := newTestJWTResolver(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	wrongAudience := validClaims()
	wrongAudience["aud"] = "someone-else"
	noUserID := validClaims()
	delete(noUserID, "user_id")

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "basic scheme", header: "Basic abc"},
		{name: "foreign key", header: "Bearer " + signToken(t, jwt.SigningMethodRS256, otherKey, validClaims())},
		{name: "hmac algorithm", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("secret"), validClaims())},
		{name: "expired", header: "Bearer " + signToken(t, jwt.SigningMethodRS256, key, expired)},
		{name: "wrong audience", header: "Bearer " + signToken(t, jwt.SigningMethodRS256, key, wrongAudience)},
		{name: "missing user_id", header: "Bearer " + signToken(t, jwt.SigningMethodRS256, key, noUserID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), services.Credentials{Authorization: tt.header})
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}
