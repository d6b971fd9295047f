package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StringList is a multi-value field stored as a JSON array in a text column.
// A NULL column always decodes to an empty slice so API consumers never see
// null for these fields.
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T for StringList", value)
	}

	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}

	var decoded []string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		logrus.WithError(err).Warn("discarding malformed string-list column value")
		*l = StringList{}
		return nil
	}
	if decoded == nil {
		decoded = []string{}
	}

	*l = decoded
	return nil
}

// Value implements driver.Valuer. A nil list is stored as NULL.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal([]string(l))
}

// MarshalJSON keeps nil lists rendering as [] in API responses.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// MenuCategory groups menu items. Name is a stable slug used as the filter
// key; DisplayName is what customers see.
type MenuCategory struct {
	BaseModel
	Name        string `gorm:"uniqueIndex" json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	Active      bool   `json:"active"`
}

// MenuItem is a purchasable dish. Category references MenuCategory.Name
// rather than its id. Price and Rating are stored as exact decimal strings.
type MenuItem struct {
	BaseModel
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	Category    string     `gorm:"index" json:"category"`
	CookTime    string     `json:"cook_time"`
	Rating      string     `json:"rating"`
	Featured    bool       `json:"featured"`
	Available   bool       `json:"available"`
	Image       string     `json:"image"`
	Images      StringList `gorm:"type:text" json:"images"`
	Allergens   StringList `gorm:"type:text" json:"allergens"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	SortOrder   int        `json:"sort_order"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
}
