package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectOpen   ProjectStatus = "OPEN"
	ProjectClosed ProjectStatus = "CLOSED"
)

func ValidProjectStatus(s ProjectStatus) bool {
	return s == ProjectOpen || s == ProjectClosed
}

type Project struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	Title       string        `gorm:"type:varchar(120);not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(10);not null;default:'OPEN'" json:"status"`

	BudgetMin *int `json:"budget_min"`
	BudgetMax *int `json:"budget_max"`

	LookingForRole Role `gorm:"type:varchar(5);not null;default:'BOTH'" json:"looking_for_role"`

	Tags []SkillTag `gorm:"many2many:project_tags" json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner     *User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
	Proposals []Proposal `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"proposals,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// OwnedBy reports whether actor may mutate this project.
func (p *Project) OwnedBy(actor uuid.UUID) bool {
	return p.OwnerID == actor
}
