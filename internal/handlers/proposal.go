package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artfit-app/backend/internal/models"
)

type ProposalHandler struct {
	DB *gorm.DB
}

func NewProposalHandler(db *gorm.DB) *ProposalHandler {
	return &ProposalHandler{DB: db}
}

// List is visibility-scoped: a caller sees proposals they submitted plus
// proposals against their own projects. Anonymous callers see nothing.
func (h *ProposalHandler) List(c *fiber.Ctx) error {
	uid := optionalAuth(c)
	if uid == uuid.Nil {
		return c.JSON(fiber.Map{"success": true, "data": []fiber.Map{}})
	}

	var proposals []models.Proposal
	if err := h.DB.
		Joins("JOIN projects ON projects.id = proposals.project_id").
		Where("proposals.submitter_id = ? OR projects.owner_id = ?", uid, uid).
		Order("proposals.created_at DESC").
		Find(&proposals).Error; err != nil {
		return fail500(c, "failed to fetch proposals")
	}

	out := make([]fiber.Map, 0, len(proposals))
	for i := range proposals {
		out = append(out, proposalView(&proposals[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": out})
}

func (h *ProposalHandler) load(c *fiber.Ctx) (*models.Proposal, error) {
	var p models.Proposal
	err := h.DB.Preload("Project").First(&p, "id = ?", c.Params("id")).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (h *ProposalHandler) Get(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	p, err := h.load(c)
	// outside the caller's visibility scope it simply does not exist
	if err != nil || !p.OwnedBy(uid) {
		return fail(c, fiber.StatusNotFound, "proposal not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": proposalView(p)})
}

type proposalCreateReq struct {
	ProjectID   string `json:"project_id"`
	CoverLetter string `json:"cover_letter"`
}

func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var req proposalCreateReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs := FieldErrors{}
	projectID, perr := uuid.Parse(strings.TrimSpace(req.ProjectID))
	if perr != nil {
		errs.Add("project_id", "A valid project id is required")
	}
	if strings.TrimSpace(req.CoverLetter) == "" {
		errs.Add("cover_letter", "Cover letter is required")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var project models.Project
	if err := h.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "project not found")
	}

	p := models.Proposal{
		ProjectID:   projectID,
		SubmitterID: uid,
		CoverLetter: req.CoverLetter,
		Status:      models.ProposalPending,
	}
	if err := h.DB.Create(&p).Error; err != nil {
		// the composite unique index resolves the concurrent-create race
		if isUniqueViolation(err) {
			return fail(c, fiber.StatusConflict, "you have already submitted a proposal for this project")
		}
		return fail500(c, "failed to save proposal")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Proposal submitted",
		"data":    proposalView(&p),
	})
}

type proposalUpdateReq struct {
	CoverLetter *string `json:"cover_letter"`
	Status      *string `json:"status"`
}

func (h *ProposalHandler) Update(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	p, err := h.load(c)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, fiber.StatusNotFound, "proposal not found")
	}
	if err != nil {
		return fail500(c, "server error")
	}
	if !p.OwnedBy(uid) {
		return fail(c, fiber.StatusForbidden, "not allowed to modify this proposal")
	}

	var req proposalUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	isSubmitter := p.SubmitterID == uid
	isProjectOwner := p.Project != nil && p.Project.OwnerID == uid

	if req.CoverLetter != nil {
		if !isSubmitter {
			return fail(c, fiber.StatusForbidden, "only the submitter may edit the cover letter")
		}
		if strings.TrimSpace(*req.CoverLetter) == "" {
			errs := FieldErrors{}
			errs.Add("cover_letter", "Cover letter is required")
			return validationFail(c, errs)
		}
		p.CoverLetter = *req.CoverLetter
	}

	if req.Status != nil {
		status := models.ProposalStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		if !models.ValidProposalStatus(status) {
			errs := FieldErrors{}
			errs.Add("status", "Status must be PENDING, ACCEPTED or REJECTED")
			return validationFail(c, errs)
		}
		if !isProjectOwner {
			return fail(c, fiber.StatusForbidden, "only the project owner may change the status")
		}
		p.Status = status
	}

	if err := h.DB.Save(p).Error; err != nil {
		return fail500(c, "failed to update proposal")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Proposal updated",
		"data":    proposalView(p),
	})
}

func (h *ProposalHandler) Delete(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	p, err := h.load(c)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, fiber.StatusNotFound, "proposal not found")
	}
	if err != nil {
		return fail500(c, "server error")
	}
	if !p.OwnedBy(uid) {
		return fail(c, fiber.StatusForbidden, "not allowed to delete this proposal")
	}

	if err := h.DB.Delete(p).Error; err != nil {
		return fail500(c, "failed to delete proposal")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Proposal deleted"})
}
