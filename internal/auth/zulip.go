package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"workspace/internal/domain"
	"workspace/internal/domain/services"
)

// Zulip user-info endpoints. The API path authenticates with an Authorization
// header, the json path with the web session cookie.
const (
	zulipAPIPath     = "/api/v1/users/me"
	zulipSessionPath = "/json/users/me"
)

// ZulipResolver resolves identities against a Zulip server's users/me endpoint.
type ZulipResolver struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewZulipResolver creates a resolver. An empty baseURL means the server is
// the one the request was addressed to (Credentials.BaseURL).
func NewZulipResolver(baseURL string, timeout time.Duration, logger *slog.Logger) *ZulipResolver {
	return &ZulipResolver{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type zulipMe struct {
	UserID *int64 `json:"user_id"`
}

// Resolve forwards the caller's credentials to Zulip and returns its user id.
func (r *ZulipResolver) Resolve(ctx context.Context, creds services.Credentials) (int32, error) {
	base := r.baseURL
	if base == "" {
		base = strings.TrimRight(creds.BaseURL, "/")
	}
	if base == "" {
		return 0, domain.NewValidationError("identity service address is unknown")
	}

	path := zulipSessionPath
	if creds.Authorization != "" {
		path = zulipAPIPath
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return 0, domain.NewValidationError(fmt.Sprintf("build identity request: %v", err))
	}
	if creds.Authorization != "" {
		req.Header.Set("Authorization", creds.Authorization)
	}
	if creds.Cookie != "" {
		req.Header.Set("Cookie", creds.Cookie)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Warn("identity service unreachable", "url", base+path, "error", err)
		return 0, domain.NewValidationError("identity service unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return 0, &domain.UpstreamAuthError{Status: resp.StatusCode, Message: "identity service rejected credentials: " + resp.Status}
	case resp.StatusCode >= 400:
		return 0, &domain.UpstreamError{Status: resp.StatusCode, Message: "identity service error: " + resp.Status}
	}

	var me zulipMe
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return 0, domain.NewValidationError(fmt.Sprintf("decode identity response: %v", err))
	}
	if me.UserID == nil || *me.UserID < 0 || *me.UserID > math.MaxInt32 {
		return 0, domain.NewValidationError("identity response has no valid user_id")
	}

	return int32(*me.UserID), nil
}
