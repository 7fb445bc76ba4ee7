package models

// Identity is the caller resolved by the identity service for one request.
// It is created once per request and never modified.
type Identity struct {
	UserID int32 `json:"user_id"`
}
