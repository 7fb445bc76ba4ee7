package models

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"workspace/internal/config"
	"workspace/internal/domain"
)

var httpScheme = regexp.MustCompile(`^https?://`)

// CatalogService describes an external service offered in the workspace.
// It has no relation to folders or their items.
type CatalogService struct {
	UUID        uuid.UUID `json:"uuid" db:"uuid"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	ServiceURL  string    `json:"service_url" db:"service_url"`
	Icon        *string   `json:"icon" db:"icon"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewCatalogServiceParams carries the attributes of a new catalog entry.
type NewCatalogServiceParams struct {
	Name        string
	Description *string
	ServiceURL  string
	Icon        *string
}

// NewCatalogService validates params and returns a catalog entry.
func NewCatalogService(p NewCatalogServiceParams, now time.Time) (*CatalogService, error) {
	s := &CatalogService{
		UUID:        uuid.New(),
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		ServiceURL:  strings.TrimSpace(p.ServiceURL),
		Icon:        p.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every attribute constraint of the catalog entry.
func (s *CatalogService) Validate() error {
	err := validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required, validation.RuneLength(1, config.MaxServiceNameLength)),
		validation.Field(&s.Description, validation.RuneLength(0, config.MaxServiceDescriptionLength)),
		validation.Field(&s.ServiceURL,
			validation.Required,
			validation.Length(1, config.MaxServiceURLLength),
			is.URL,
			validation.Match(httpScheme).Error("must use http or https"),
		),
		validation.Field(&s.Icon, validation.Length(0, config.MaxServiceURLLength)),
	)
	if err != nil {
		return domain.NewValidationError(err.Error())
	}
	return nil
}
