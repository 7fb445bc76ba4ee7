package config

const (
	// MinFolderTitleLength and MaxFolderTitleLength bound folder titles.
	// 64 matches the VARCHAR(64) column.
	MinFolderTitleLength = 3
	MaxFolderTitleLength = 64

	// MaxInt32 bounds user ids, chat ids, unread message ids and order indexes
	// (PostgreSQL INTEGER).
	MaxInt32 = 1<<31 - 1

	// MaxBackgroundColor is the largest ARGB color value (unsigned 32-bit).
	MaxBackgroundColor = 1<<32 - 1

	// MaxServiceNameLength and MaxServiceDescriptionLength match VARCHAR(255).
	MaxServiceNameLength        = 255
	MaxServiceDescriptionLength = 255

	// MaxServiceURLLength bounds service_url and icon (VARCHAR(2048)).
	MaxServiceURLLength = 2048

	// AllFolderTitle is the title given to an implicitly provisioned "all" folder.
	AllFolderTitle = "All messages"
)
