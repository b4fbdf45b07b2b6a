package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds the public-facing details of a user. Exactly one row per
// user; created together with the user row in the same transaction.
type Profile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	DisplayName  string   `gorm:"type:varchar(80)" json:"display_name"`
	Bio          string   `gorm:"type:text" json:"bio"`
	Location     string   `gorm:"type:varchar(120)" json:"location"`
	PortfolioURL string   `gorm:"type:text" json:"portfolio_url"`
	HourlyRate   *float64 `gorm:"type:numeric(8,2)" json:"hourly_rate"`
	Availability string   `gorm:"type:varchar(80)" json:"availability"`
	AvatarURL    string   `gorm:"type:text" json:"avatar_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
