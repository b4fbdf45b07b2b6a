package handlers

import (
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/artfit-app/backend/internal/models"
)

type ProjectHandler struct {
	DB *gorm.DB
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{DB: db}
}

func (h *ProjectHandler) applyFilters(q *gorm.DB, c *fiber.Ctx) *gorm.DB {
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			h.DB.Where("LOWER(projects.title) LIKE ?", like).
				Or("LOWER(projects.description) LIKE ?", like).
				Or("LOWER(projects.looking_for_role) LIKE ?", like).
				Or("projects.id IN (?)",
					h.DB.Table("project_tags").
						Select("project_tags.project_id").
						Joins("JOIN skill_tags ON skill_tags.id = project_tags.skill_tag_id").
						Where("LOWER(skill_tags.name) LIKE ?", like),
				),
		)
	}
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("projects.status = ?", status)
	}
	if role := strings.ToUpper(strings.TrimSpace(c.Query("role"))); role != "" {
		q = q.Where("projects.looking_for_role = ?", role)
	}
	if tag := strings.TrimSpace(c.Query("tag")); tag != "" {
		q = q.Where("projects.id IN (?)",
			h.DB.Table("project_tags").
				Select("project_tags.project_id").
				Joins("JOIN skill_tags ON skill_tags.id = project_tags.skill_tag_id").
				Where("LOWER(skill_tags.name) = ?", strings.ToLower(tag)),
		)
	}
	return q
}

func (h *ProjectHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	var totalItems int64
	if err := h.applyFilters(h.DB.Model(&models.Project{}), c).
		Count(&totalItems).Error; err != nil {
		return fail500(c, "failed to count projects")
	}

	var projects []models.Project
	if err := h.applyFilters(h.DB.Model(&models.Project{}), c).
		Preload("Tags").
		Order("projects.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error; err != nil {
		return fail500(c, "failed to fetch projects")
	}

	out := make([]fiber.Map, 0, len(projects))
	for i := range projects {
		out = append(out, projectView(&projects[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
		"meta": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total_items": totalItems,
			"total_pages": int(math.Ceil(float64(totalItems) / float64(limit))),
		},
	})
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	var p models.Project
	if err := h.DB.Preload("Tags").First(&p, "id = ?", c.Params("id")).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "project not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": projectView(&p)})
}

type projectReq struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Status         string  `json:"status"`
	BudgetMin      *int    `json:"budget_min"`
	BudgetMax      *int    `json:"budget_max"`
	LookingForRole string  `json:"looking_for_role"`
	TagIDs         *[]uint `json:"tag_ids"`
}

func (h *ProjectHandler) validate(req *projectReq, requireAll bool) (FieldErrors, models.ProjectStatus, models.Role) {
	errs := FieldErrors{}

	if requireAll && strings.TrimSpace(req.Title) == "" {
		errs.Add("title", "Title is required")
	}
	if requireAll && strings.TrimSpace(req.Description) == "" {
		errs.Add("description", "Description is required")
	}

	status := models.ProjectStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status != "" && !models.ValidProjectStatus(status) {
		errs.Add("status", "Status must be OPEN or CLOSED")
	}

	role := models.Role(strings.ToUpper(strings.TrimSpace(req.LookingForRole)))
	if role != "" && !models.ValidRole(role) {
		errs.Add("looking_for_role", "Role must be DEV, DES or BOTH")
	}

	if req.BudgetMin != nil && *req.BudgetMin < 0 {
		errs.Add("budget_min", "Budget must be >= 0")
	}
	if req.BudgetMax != nil && *req.BudgetMax < 0 {
		errs.Add("budget_max", "Budget must be >= 0")
	}
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		errs.Add("budget_max", "budget_max must be >= budget_min")
	}

	return errs, status, role
}

func (h *ProjectHandler) resolveTags(ids []uint) ([]models.SkillTag, bool) {
	tags := []models.SkillTag{}
	if len(ids) == 0 {
		return tags, true
	}
	if err := h.DB.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, false
	}
	return tags, len(tags) == len(ids)
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var req projectReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs, status, role := h.validate(&req, true)

	var tagIDs []uint
	if req.TagIDs != nil {
		tagIDs = *req.TagIDs
	}
	tags, ok := h.resolveTags(tagIDs)
	if !ok {
		errs.Add("tag_ids", "One or more tags do not exist")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	if status == "" {
		status = models.ProjectOpen
	}
	if role == "" {
		role = models.RoleBoth
	}

	p := models.Project{
		OwnerID:        uid,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Status:         status,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		LookingForRole: role,
		Tags:           tags,
	}
	if err := h.DB.Create(&p).Error; err != nil {
		return fail500(c, "failed to save project")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Project created",
		"data":    projectView(&p),
	})
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var p models.Project
	if err := h.DB.Preload("Tags").First(&p, "id = ?", c.Params("id")).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "project not found")
	}
	if !p.OwnedBy(uid) {
		return fail(c, fiber.StatusForbidden, "only the owner may modify this project")
	}

	var req projectReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs, status, role := h.validate(&req, false)

	var tags []models.SkillTag
	if req.TagIDs != nil {
		var ok bool
		tags, ok = h.resolveTags(*req.TagIDs)
		if !ok {
			errs.Add("tag_ids", "One or more tags do not exist")
		}
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		p.Title = title
	}
	if strings.TrimSpace(req.Description) != "" {
		p.Description = req.Description
	}
	if status != "" {
		p.Status = status
	}
	if role != "" {
		p.LookingForRole = role
	}
	if req.BudgetMin != nil {
		p.BudgetMin = req.BudgetMin
	}
	if req.BudgetMax != nil {
		p.BudgetMax = req.BudgetMax
	}

	if err := h.DB.Save(&p).Error; err != nil {
		return fail500(c, "failed to update project")
	}
	if req.TagIDs != nil {
		if err := h.DB.Model(&p).Association("Tags").Replace(tags); err != nil {
			return fail500(c, "failed to update tags")
		}
		p.Tags = tags
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project updated",
		"data":    projectView(&p),
	})
}

func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var p models.Project
	if err := h.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "project not found")
	}
	if !p.OwnedBy(uid) {
		return fail(c, fiber.StatusForbidden, "only the owner may delete this project")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Proposal{}, "project_id = ?", p.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&p).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		return fail500(c, "failed to delete project")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Project deleted"})
}
