package services

import "context"

// Credentials are the request headers forwarded to the identity service.
type Credentials struct {
	Authorization string
	Cookie        string
	// BaseURL is the identity service root derived from the inbound request.
	// Resolvers with a configured endpoint ignore it.
	BaseURL string
}

// Empty reports whether the request carried no credential at all.
func (c Credentials) Empty() bool {
	return c.Authorization == "" && c.Cookie == ""
}

// IdentityResolver turns request credentials into a numeric user id.
type IdentityResolver interface {
	Resolve(ctx context.Context, creds Credentials) (int32, error)
}
