package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"workspace/internal/domain"
)

// FolderItem places one external chat into one folder.
// (chat_id, folder_uuid) is unique.
type FolderItem struct {
	UUID       uuid.UUID  `json:"uuid" db:"uuid"`
	FolderUUID uuid.UUID  `json:"folder_uuid" db:"folder"`
	UserID     int32      `json:"user_id" db:"user_id"`
	ChatID     int32      `json:"chat_id" db:"chat_id"`
	OrderIndex *int32     `json:"order_index" db:"order_index"`
	PinnedAt   *time.Time `json:"pinned_at" db:"pinned_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// IsPinned reports whether the item is currently pinned.
func (i *FolderItem) IsPinned() bool {
	return i.PinnedAt != nil
}

// NewFolderItemParams carries the caller-supplied attributes of a new item.
type NewFolderItemParams struct {
	UserID     int32
	FolderUUID uuid.UUID
	ChatID     int32
	OrderIndex *int32
}

// NewFolderItem validates params and returns an unpinned item.
func NewFolderItem(p NewFolderItemParams, now time.Time) (*FolderItem, error) {
	item := &FolderItem{
		UUID:       uuid.New(),
		FolderUUID: p.FolderUUID,
		UserID:     p.UserID,
		ChatID:     p.ChatID,
		OrderIndex: p.OrderIndex,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks every attribute constraint of the item.
func (i *FolderItem) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.FolderUUID, validation.By(requiredUUID)),
		validation.Field(&i.UserID, validation.Min(int32(0))),
		validation.Field(&i.ChatID, validation.Min(int32(0))),
	)
	if err != nil {
		return domain.NewValidationError(err.Error())
	}
	return nil
}

func requiredUUID(value interface{}) error {
	if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
		return validation.ErrRequired
	}
	return nil
}
