package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/artfit-app/backend/internal/cache"
	"github.com/artfit-app/backend/internal/models"
)

const skillCacheKey = "skills:all"

// SkillHandler manages the shared tag vocabulary. Mutation is deliberately
// open to any caller; tags carry no ownership.
type SkillHandler struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewSkillHandler(db *gorm.DB, cch *cache.Cache) *SkillHandler {
	return &SkillHandler{DB: db, Cache: cch}
}

func (h *SkillHandler) List(c *fiber.Ctx) error {
	search := strings.TrimSpace(c.Query("search"))

	var tags []models.SkillTag
	if search == "" {
		if h.Cache.GetJSON(c.Context(), skillCacheKey, &tags) {
			return c.JSON(fiber.Map{"success": true, "data": tags})
		}
	}

	q := h.DB.Order("name ASC")
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(kind) LIKE ?", like, like)
	}
	if err := q.Find(&tags).Error; err != nil {
		return fail500(c, "failed to fetch skills")
	}

	if search == "" {
		h.Cache.SetJSON(c.Context(), skillCacheKey, tags)
	}
	return c.JSON(fiber.Map{"success": true, "data": tags})
}

func (h *SkillHandler) Get(c *fiber.Ctx) error {
	var tag models.SkillTag
	if err := h.DB.First(&tag, "id = ?", c.Params("id")).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "skill not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": tagView(tag)})
}

type skillReq struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (h *SkillHandler) Create(c *fiber.Ctx) error {
	var req skillReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	name := strings.TrimSpace(req.Name)
	kind := models.TagKind(strings.ToUpper(strings.TrimSpace(req.Kind)))
	if kind == "" {
		kind = models.TagKindTool
	}

	errs := FieldErrors{}
	if name == "" {
		errs.Add("name", "Name is required")
	}
	if !models.ValidTagKind(kind) {
		errs.Add("kind", "Kind must be ROLE, TOOL, STYLE or GENRE")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	tag := models.SkillTag{Name: name, Kind: kind}
	if err := h.DB.Create(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			errs.Add("name", "A skill with this name already exists")
			return validationFail(c, errs)
		}
		return fail500(c, "failed to save skill")
	}

	h.Cache.Invalidate(c.Context(), skillCacheKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Skill created",
		"data":    tagView(tag),
	})
}

func (h *SkillHandler) Update(c *fiber.Ctx) error {
	var tag models.SkillTag
	if err := h.DB.First(&tag, "id = ?", c.Params("id")).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "skill not found")
	}

	var req skillReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		tag.Name = name
	}
	if req.Kind != "" {
		kind := models.TagKind(strings.ToUpper(strings.TrimSpace(req.Kind)))
		if !models.ValidTagKind(kind) {
			errs := FieldErrors{}
			errs.Add("kind", "Kind must be ROLE, TOOL, STYLE or GENRE")
			return validationFail(c, errs)
		}
		tag.Kind = kind
	}

	if err := h.DB.Save(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			errs := FieldErrors{}
			errs.Add("name", "A skill with this name already exists")
			return validationFail(c, errs)
		}
		return fail500(c, "failed to update skill")
	}

	h.Cache.Invalidate(c.Context(), skillCacheKey)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Skill updated",
		"data":    tagView(tag),
	})
}

func (h *SkillHandler) Delete(c *fiber.Ctx) error {
	var tag models.SkillTag
	err := h.DB.First(&tag, "id = ?", c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, fiber.StatusNotFound, "skill not found")
	}
	if err != nil {
		return fail500(c, "server error")
	}

	if err := h.DB.Delete(&tag).Error; err != nil {
		return fail500(c, "failed to delete skill")
	}

	h.Cache.Invalidate(c.Context(), skillCacheKey)

	return c.JSON(fiber.Map{"success": true, "message": "Skill deleted"})
}
