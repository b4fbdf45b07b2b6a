package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artfit-app/backend/internal/models"
	"github.com/artfit-app/backend/internal/storage"
)

type MeHandler struct {
	DB      *gorm.DB
	Storage storage.Storage
}

func NewMeHandler(db *gorm.DB, store storage.Storage) *MeHandler {
	return &MeHandler{DB: db, Storage: store}
}

func (h *MeHandler) loadAccount(uid uuid.UUID) (*models.User, error) {
	var u models.User
	err := h.DB.
		Preload("Profile").
		Preload("Works", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&u, "id = ?", uid).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (h *MeHandler) Me(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	u, err := h.loadAccount(uid)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "account not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    accountView(u),
	})
}

// rateField tolerates both encodings of hourly_rate: form data and some
// JSON clients send a string, others send a bare number.
type rateField string

func (r *rateField) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*r = rateField(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = rateField(s)
	return nil
}

type profilePatch struct {
	DisplayName  *string    `json:"display_name"`
	Bio          *string    `json:"bio"`
	Location     *string    `json:"location"`
	PortfolioURL *string    `json:"portfolio_url"`
	HourlyRate   *rateField `json:"hourly_rate"`
	Availability *string    `json:"availability"`
}

type updateMeReq struct {
	Email   *string       `json:"email"`
	Role    *string       `json:"role"`
	Profile *profilePatch `json:"profile"`
}

func (h *MeHandler) UpdateMe(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var req updateMeReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", uid).Error; err != nil {
		return fail(c, fiber.StatusUnauthorized, "account not found")
	}

	errs := FieldErrors{}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" || !strings.Contains(email, "@") {
			errs.Add("email", "Invalid email format")
		} else {
			u.Email = email
		}
	}
	if req.Role != nil {
		role := models.Role(strings.ToUpper(strings.TrimSpace(*req.Role)))
		if !models.ValidRole(role) {
			errs.Add("role", "Role must be DEV, DES or BOTH")
		} else {
			u.Role = role
		}
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	if err := h.DB.Save(&u).Error; err != nil {
		if isUniqueViolation(err) {
			errs.Add("email", "Email already registered")
			return validationFail(c, errs)
		}
		return fail500(c, "failed to update account")
	}

	if req.Profile != nil {
		if err := h.applyProfilePatch(uid, *req.Profile, ""); err != nil {
			return h.profileErr(c, err)
		}
	}

	out, err := h.loadAccount(uid)
	if err != nil {
		return fail500(c, "server error")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account updated",
		"data":    accountView(out),
	})
}

// applyProfilePatch applies a partial update, creating the profile row if it
// went missing (older accounts may predate transactional creation).
func (h *MeHandler) applyProfilePatch(uid uuid.UUID, patch profilePatch, avatarURL string) error {
	var p models.Profile
	err := h.DB.Where("user_id = ?", uid).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = models.Profile{UserID: uid}
	} else if err != nil {
		return err
	}

	if patch.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.Location != nil {
		p.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.PortfolioURL != nil {
		p.PortfolioURL = strings.TrimSpace(*patch.PortfolioURL)
	}
	if patch.Availability != nil {
		p.Availability = strings.TrimSpace(*patch.Availability)
	}
	if patch.HourlyRate != nil {
		raw := strings.TrimSpace(string(*patch.HourlyRate))
		if raw == "" {
			p.HourlyRate = nil
		} else {
			rate, err := strconv.ParseFloat(raw, 64)
			if err != nil || rate < 0 {
				return errInvalidHourlyRate
			}
			p.HourlyRate = &rate
		}
	}
	if avatarURL != "" {
		p.AvatarURL = avatarURL
	}

	return h.DB.Save(&p).Error
}

var errInvalidHourlyRate = fiber.NewError(fiber.StatusBadRequest, "hourly_rate must be a number >= 0")

// UpdateProfile handles PUT /profile as multipart form data, including an
// optional avatar upload.
func (h *MeHandler) UpdateProfile(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		// JSON fallback for clients without an avatar to send
		var patch profilePatch
		if err := c.BodyParser(&patch); err != nil {
			return fail(c, fiber.StatusBadRequest, "invalid body")
		}
		if err := h.applyProfilePatch(uid, patch, ""); err != nil {
			return h.profileErr(c, err)
		}
		return h.respondProfile(c, uid)
	}

	patch := profilePatch{}
	formStr := func(key string) *string {
		vals, ok := form.Value[key]
		if !ok || len(vals) == 0 {
			return nil
		}
		return &vals[0]
	}
	patch.DisplayName = formStr("display_name")
	patch.Bio = formStr("bio")
	patch.Location = formStr("location")
	patch.PortfolioURL = formStr("portfolio_url")
	if v := formStr("hourly_rate"); v != nil {
		r := rateField(*v)
		patch.HourlyRate = &r
	}
	patch.Availability = formStr("availability")

	avatarURL := ""
	if file, err := c.FormFile("avatar"); err == nil {
		if file.Size <= 0 {
			return fail(c, fiber.StatusBadRequest, "invalid file size")
		}
		if !storage.AllowedImageExt(file.Filename) {
			return fail(c, fiber.StatusBadRequest, "unsupported image format")
		}
		src, err := file.Open()
		if err != nil {
			return fail500(c, "failed to read avatar")
		}
		defer src.Close()

		key := storage.NewKey("avatars", file.Filename)
		avatarURL, err = h.Storage.Save(c.Context(), key, file.Header.Get("Content-Type"), src)
		if err != nil {
			return fail500(c, "failed to store avatar")
		}
	}

	if err := h.applyProfilePatch(uid, patch, avatarURL); err != nil {
		return h.profileErr(c, err)
	}
	return h.respondProfile(c, uid)
}

func (h *MeHandler) profileErr(c *fiber.Ctx, err error) error {
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return fail(c, ferr.Code, ferr.Message)
	}
	return fail500(c, "failed to update profile")
}

func (h *MeHandler) respondProfile(c *fiber.Ctx, uid uuid.UUID) error {
	var p models.Profile
	if err := h.DB.Where("user_id = ?", uid).First(&p).Error; err != nil {
		return fail500(c, "server error")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated",
		"data":    profileView(&p),
	})
}
