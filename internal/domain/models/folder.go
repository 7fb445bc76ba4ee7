package models

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"workspace/internal/config"
	"workspace/internal/domain"
)

// SystemFolderType marks folders with special per-user cardinality rules.
type SystemFolderType string

const (
	// SystemFolderAll is the user's "all messages" folder. At most one per user.
	SystemFolderAll SystemFolderType = "all"
	// SystemFolderCreated marks a folder the user created. It is the default.
	SystemFolderCreated SystemFolderType = "created"
)

// Valid reports whether t is a known system folder type.
func (t SystemFolderType) Valid() bool {
	return t == SystemFolderAll || t == SystemFolderCreated
}

// ParseSystemFolderType converts a raw string into a SystemFolderType.
func ParseSystemFolderType(s string) (SystemFolderType, error) {
	t := SystemFolderType(s)
	if !t.Valid() {
		return "", domain.NewValidationError(fmt.Sprintf("system_type: must be one of %q, %q", SystemFolderAll, SystemFolderCreated))
	}
	return t, nil
}

// Folder is a per-user view over a set of chats.
type Folder struct {
	UUID                 uuid.UUID         `json:"uuid" db:"uuid"`
	Title                string            `json:"title" db:"title"`
	UserID               int32             `json:"user_id" db:"user_id"`
	BackgroundColorValue *int64            `json:"background_color_value" db:"background_color_value"`
	UnreadMessages       []int32           `json:"unread_messages" db:"unread_messages"`
	SystemType           *SystemFolderType `json:"system_type" db:"system_type"`
	CreatedAt            time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at" db:"updated_at"`
}

// IsAllFolder reports whether the folder is the user's "all" system folder.
func (f *Folder) IsAllFolder() bool {
	return f.SystemType != nil && *f.SystemType == SystemFolderAll
}

// NewFolderParams carries the caller-supplied attributes of a new folder.
type NewFolderParams struct {
	UserID               int32
	Title                string
	SystemType           *SystemFolderType
	BackgroundColorValue *int64
	UnreadMessages       []int32
}

// NewFolder validates params and returns a folder with a fresh UUID and
// timestamps set to now.
func NewFolder(p NewFolderParams, now time.Time) (*Folder, error) {
	unread := p.UnreadMessages
	if unread == nil {
		unread = []int32{}
	}

	f := &Folder{
		UUID:                 uuid.New(),
		Title:                strings.TrimSpace(p.Title),
		UserID:               p.UserID,
		BackgroundColorValue: p.BackgroundColorValue,
		UnreadMessages:       unread,
		SystemType:           p.SystemType,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks every attribute constraint of the folder.
func (f *Folder) Validate() error {
	err := validation.ValidateStruct(f,
		validation.Field(&f.Title,
			validation.Required,
			validation.RuneLength(config.MinFolderTitleLength, config.MaxFolderTitleLength),
		),
		validation.Field(&f.UserID, validation.Min(int32(0))),
		validation.Field(&f.BackgroundColorValue,
			validation.Min(int64(0)),
			validation.Max(int64(config.MaxBackgroundColor)),
		),
		validation.Field(&f.UnreadMessages, validation.Each(validation.Min(int32(0)))),
		validation.Field(&f.SystemType, validation.By(validSystemType)),
	)
	if err != nil {
		return domain.NewValidationError(err.Error())
	}
	return nil
}

func validSystemType(value interface{}) error {
	t, _ := value.(*SystemFolderType)
	if t == nil || t.Valid() {
		return nil
	}
	return fmt.Errorf("must be one of %q, %q", SystemFolderAll, SystemFolderCreated)
}
