package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/artfit-app/backend/internal/middleware"
	"github.com/artfit-app/backend/internal/models"
	"github.com/artfit-app/backend/internal/services/token"
	"github.com/artfit-app/backend/internal/utils"
)

type AuthHandler struct {
	DB     *gorm.DB
	Tokens *token.Service
}

type RegisterReq struct {
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // DEV / DES / BOTH
}

func setAuthCookie(c *fiber.Ctx, accessToken string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    accessToken,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   maxAge,
	})
}

func clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	handle := strings.TrimSpace(req.Handle)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	role := models.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if role == "" {
		role = models.RoleBoth
	}

	errs := FieldErrors{}
	if handle == "" {
		errs.Add("handle", "Handle is required")
	}
	if email == "" {
		errs.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") {
		errs.Add("email", "Invalid email format")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	} else if len(password) < 6 {
		errs.Add("password", "Password must be at least 6 characters")
	}
	if !models.ValidRole(role) {
		errs.Add("role", "Role must be DEV, DES or BOTH")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var existing models.User
	if err := h.DB.Where("handle = ?", handle).First(&existing).Error; err == nil {
		errs.Add("handle", "Handle already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail500(c, "server error")
	}
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		errs.Add("email", "Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail500(c, "server error")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return fail500(c, "failed to process password")
	}

	u := models.User{
		Handle:   handle,
		Email:    email,
		Password: pw,
		Role:     role,
		IsActive: true,
	}

	// account and profile commit together; an account without a profile
	// must never be observable
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		return tx.Create(&models.Profile{UserID: u.ID}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return validationFail(c, h.conflictFields(handle, email))
		}
		return fail500(c, "failed to register")
	}

	pair, err := h.Tokens.Issue(c.Context(), u.ID, u.Role)
	if err != nil {
		return fail500(c, "failed to create token")
	}

	if err := h.DB.Preload("Profile").First(&u, "id = ?", u.ID).Error; err != nil {
		return fail500(c, "server error")
	}

	setAuthCookie(c, pair.AccessToken, h.Tokens.AccessTokenMaxAge())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registered",
		"data": fiber.Map{
			"account":       accountView(&u),
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
		},
	})
}

// conflictFields attributes a unique violation raised by the insert itself
// (a row created after the pre-checks ran) to the colliding column.
func (h *AuthHandler) conflictFields(handle, email string) FieldErrors {
	errs := FieldErrors{}
	var existing models.User
	if err := h.DB.Where("handle = ?", handle).First(&existing).Error; err == nil {
		errs.Add("handle", "Handle already taken")
	}
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		errs.Add("email", "Email already registered")
	}
	if len(errs) == 0 {
		errs.Add("account", "Handle or email already taken")
	}
	return errs
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errs := FieldErrors{}
	if email == "" {
		errs.Add("email", "Email is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var u models.User
	if err := h.DB.Preload("Profile").Where("email = ?", email).First(&u).Error; err != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	if !u.IsActive {
		return fail(c, fiber.StatusUnauthorized, "account is inactive")
	}
	if !utils.CheckPassword(u.Password, password) {
		return fail(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	pair, err := h.Tokens.Issue(c.Context(), u.ID, u.Role)
	if err != nil {
		return fail500(c, "failed to create token")
	}

	setAuthCookie(c, pair.AccessToken, h.Tokens.AccessTokenMaxAge())

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged in",
		"data": fiber.Map{
			"account":       accountView(&u),
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
		},
	})
}

type RefreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshReq
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return fail(c, fiber.StatusBadRequest, "refresh_token is required")
	}

	pair, err := h.Tokens.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return respondErr(c, err)
	}

	setAuthCookie(c, pair.AccessToken, h.Tokens.AccessTokenMaxAge())

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req RefreshReq
	if err := c.BodyParser(&req); err == nil && req.RefreshToken != "" {
		_ = h.Tokens.Revoke(c.Context(), req.RefreshToken)
	}

	clearAuthCookie(c)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}
