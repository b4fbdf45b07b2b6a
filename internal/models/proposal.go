package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "PENDING"
	ProposalAccepted ProposalStatus = "ACCEPTED"
	ProposalRejected ProposalStatus = "REJECTED"
)

func ValidProposalStatus(s ProposalStatus) bool {
	return s == ProposalPending || s == ProposalAccepted || s == ProposalRejected
}

// Proposal is an application against a project. A user can submit at most
// one proposal per project, enforced by the composite unique index.
type Proposal struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_proposals_project_submitter" json:"project_id"`
	SubmitterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_proposals_project_submitter" json:"submitter_id"`

	CoverLetter string         `gorm:"type:text;not null" json:"cover_letter"`
	Status      ProposalStatus `gorm:"type:varchar(10);not null;default:'PENDING'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project   *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Submitter *User    `gorm:"foreignKey:SubmitterID;constraint:OnDelete:CASCADE" json:"submitter,omitempty"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// OwnedBy reports whether actor may mutate this proposal: either the
// submitter or the owner of the target project (when loaded).
func (p *Proposal) OwnedBy(actor uuid.UUID) bool {
	if p.SubmitterID == actor {
		return true
	}
	return p.Project != nil && p.Project.OwnerID == actor
}
