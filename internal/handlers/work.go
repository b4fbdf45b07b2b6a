package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/artfit-app/backend/internal/models"
	"github.com/artfit-app/backend/internal/storage"
)

// WorkHandler serves the caller's portfolio pieces. Every query is scoped
// to the authenticated user; other users' works are invisible here.
type WorkHandler struct {
	DB      *gorm.DB
	Storage storage.Storage
}

func NewWorkHandler(db *gorm.DB, store storage.Storage) *WorkHandler {
	return &WorkHandler{DB: db, Storage: store}
}

func (h *WorkHandler) List(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var works []models.Work
	if err := h.DB.
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Find(&works).Error; err != nil {
		return fail500(c, "failed to fetch works")
	}

	out := make([]fiber.Map, 0, len(works))
	for _, w := range works {
		out = append(out, workView(w))
	}
	return c.JSON(fiber.Map{"success": true, "data": out})
}

// workInput reads title/image/transform from either multipart form data
// (with an image upload) or a JSON body (image by URL).
func (h *WorkHandler) workInput(c *fiber.Ctx) (title, imageURL string, transform datatypes.JSON, err error) {
	if form, ferr := c.MultipartForm(); ferr == nil {
		formVal := func(key string) string {
			if vals, ok := form.Value[key]; ok && len(vals) > 0 {
				return vals[0]
			}
			return ""
		}
		title = strings.TrimSpace(formVal("title"))
		imageURL = strings.TrimSpace(formVal("image_url"))
		if raw := formVal("image_transform"); raw != "" {
			if !json.Valid([]byte(raw)) {
				return "", "", nil, fiber.NewError(fiber.StatusBadRequest, "image_transform must be valid JSON")
			}
			transform = datatypes.JSON(raw)
		}

		if file, ferr := c.FormFile("image"); ferr == nil {
			if !storage.AllowedImageExt(file.Filename) {
				return "", "", nil, fiber.NewError(fiber.StatusBadRequest, "unsupported image format")
			}
			src, oerr := file.Open()
			if oerr != nil {
				return "", "", nil, oerr
			}
			defer src.Close()

			key := storage.NewKey("works", file.Filename)
			imageURL, err = h.Storage.Save(c.Context(), key, file.Header.Get("Content-Type"), src)
			if err != nil {
				return "", "", nil, err
			}
		}
		return title, imageURL, transform, nil
	}

	var req struct {
		Title          string         `json:"title"`
		ImageURL       string         `json:"image_url"`
		ImageTransform map[string]any `json:"image_transform"`
	}
	if err := c.BodyParser(&req); err != nil {
		return "", "", nil, fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.ImageTransform != nil {
		raw, merr := json.Marshal(req.ImageTransform)
		if merr != nil {
			return "", "", nil, merr
		}
		transform = datatypes.JSON(raw)
	}
	return strings.TrimSpace(req.Title), strings.TrimSpace(req.ImageURL), transform, nil
}

func (h *WorkHandler) Create(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	title, imageURL, transform, err := h.workInput(c)
	if err != nil {
		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return fail(c, ferr.Code, ferr.Message)
		}
		return fail500(c, "failed to process upload")
	}

	errs := FieldErrors{}
	if title == "" {
		errs.Add("title", "Title is required")
	}
	if imageURL == "" {
		errs.Add("image", "Image file or image_url is required")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	w := models.Work{
		UserID:         uid,
		Title:          title,
		ImageURL:       imageURL,
		ImageTransform: transform,
	}
	if err := h.DB.Create(&w).Error; err != nil {
		return fail500(c, "failed to save work")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Work created",
		"data":    workView(w),
	})
}

func (h *WorkHandler) Update(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var w models.Work
	if err := h.DB.First(&w, "id = ? AND user_id = ?", c.Params("id"), uid).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "work not found")
	}

	title, imageURL, transform, err := h.workInput(c)
	if err != nil {
		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return fail(c, ferr.Code, ferr.Message)
		}
		return fail500(c, "failed to process upload")
	}

	if title != "" {
		w.Title = title
	}
	if imageURL != "" {
		w.ImageURL = imageURL
	}
	if transform != nil {
		w.ImageTransform = transform
	}

	if err := h.DB.Save(&w).Error; err != nil {
		return fail500(c, "failed to update work")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Work updated",
		"data":    workView(w),
	})
}

func (h *WorkHandler) Delete(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var w models.Work
	if err := h.DB.First(&w, "id = ? AND user_id = ?", c.Params("id"), uid).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "work not found")
	}

	if err := h.DB.Delete(&w).Error; err != nil {
		return fail500(c, "failed to delete work")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Work deleted"})
}
