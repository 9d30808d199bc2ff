package categories

import (
	"time"

	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
)

// CategoryDTO is the transport shape of a ledger category.
type CategoryDTO struct {
	ID         string          `json:"id"`
	LedgerID   string          `json:"ledger_id"`
	Name       string          `json:"name"`
	Type       enums.EntryType `json:"type"`
	Color      string          `json:"color"`
	Icon       string          `json:"icon"`
	SortOrder  int             `json:"sort_order"`
	IsTemplate bool            `json:"is_template"`
	TemplateID *string         `json:"template_id,omitempty"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

func ToDTO(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	var templateID *string
	if c.TemplateID != nil {
		id := *c.TemplateID
		templateID = &id
	}
	return &CategoryDTO{
		ID:         c.ID,
		LedgerID:   c.LedgerID,
		Name:       c.Name,
		Type:       c.Type,
		Color:      c.Color,
		Icon:       c.Icon,
		SortOrder:  c.SortOrder,
		IsTemplate: c.IsTemplate,
		TemplateID: templateID,
		CreatedAt:  c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ToDTOs converts a slice of categories for transport.
func ToDTOs(items []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(items))
	for i := range items {
		out = append(out, *ToDTO(&items[i]))
	}
	return out
}
