package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/artfit-app/backend/internal/models"
	"github.com/artfit-app/backend/internal/services/googleauth"
	"github.com/artfit-app/backend/internal/services/token"
	"github.com/artfit-app/backend/internal/utils"
)

const handleRetries = 5

type GoogleAuthHandler struct {
	DB              *gorm.DB
	Tokens          *token.Service
	Verifier        *googleauth.Service
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func (h *GoogleAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.Verifier.ClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// findOrCreateByEmail links a verified external identity to an account.
// New accounts get a generated handle; the display name claim is only used
// on first creation.
func (h *GoogleAuthHandler) findOrCreateByEmail(email, name, subject string) (*models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u models.User
	err := h.DB.Preload("Profile").Where("email = ?", email).First(&u).Error
	if err == nil {
		return &u, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	// password login is never used for these accounts, but the column is
	// NOT NULL
	hashed, err := utils.HashPassword(randomState(24))
	if err != nil {
		return nil, false, err
	}

	for attempt := 0; attempt < handleRetries; attempt++ {
		handle := utils.GenerateHandle(email, subject)
		if attempt > 0 {
			handle = utils.HandleWithRandomSuffix(email)
		}

		u = models.User{
			Handle:   handle,
			Email:    email,
			Password: hashed,
			Role:     models.RoleBoth,
			IsActive: true,
		}
		err = h.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
			return tx.Create(&models.Profile{
				UserID:      u.ID,
				DisplayName: strings.TrimSpace(name),
			}).Error
		})
		if err == nil {
			if err := h.DB.Preload("Profile").First(&u, "id = ?", u.ID).Error; err != nil {
				return nil, false, err
			}
			return &u, true, nil
		}
		if !isUniqueViolation(err) {
			return nil, false, err
		}
		// a concurrent sign-in may have claimed the email itself
		if ferr := h.DB.Preload("Profile").Where("email = ?", email).First(&u).Error; ferr == nil {
			return &u, false, nil
		}
	}
	return nil, false, fmt.Errorf("could not allocate a unique handle for %s", email)
}

type GoogleAuthReq struct {
	Token string `json:"token"`
}

// Authenticate handles POST /auth/google: verify an ID token, then sign the
// linked account in, creating it on first contact.
func (h *GoogleAuthHandler) Authenticate(c *fiber.Ctx) error {
	var req GoogleAuthReq
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return fail(c, fiber.StatusBadRequest, "token is required")
	}

	claims, err := h.Verifier.VerifyIDToken(c.Context(), req.Token)
	if err != nil {
		return respondErr(c, err)
	}

	u, isNew, err := h.findOrCreateByEmail(claims.Email, claims.Name, claims.Sub)
	if err != nil {
		return fail500(c, "failed to link account")
	}
	if !u.IsActive {
		return fail(c, fiber.StatusUnauthorized, "account is inactive")
	}

	pair, err := h.Tokens.Issue(c.Context(), u.ID, u.Role)
	if err != nil {
		return fail500(c, "failed to create token")
	}

	setAuthCookie(c, pair.AccessToken, h.Tokens.AccessTokenMaxAge())

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"account":        accountView(u),
			"access_token":   pair.AccessToken,
			"refresh_token":  pair.RefreshToken,
			"is_new_account": isNew,
		},
	})
}

// Start begins the browser redirect flow.
func (h *GoogleAuthHandler) Start(c *fiber.Ctx) error {
	next := c.Query("next", "/")
	st := randomState(32)

	c.Cookie(&fiber.Cookie{
		Name: "oauth_state", Value: st, Path: "/",
		HTTPOnly: true, Secure: false, SameSite: "Lax", MaxAge: 10 * 60,
	})
	c.Cookie(&fiber.Cookie{
		Name: "oauth_next", Value: next, Path: "/",
		HTTPOnly: true, Secure: false, SameSite: "Lax", MaxAge: 10 * 60,
	})

	authURL := h.oauthCfg().AuthCodeURL(st, oauth2.AccessTypeOffline)
	return c.Redirect(authURL, http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Callback finishes the browser flow: exchange the code, fetch the profile,
// link the account and drop the session cookie.
func (h *GoogleAuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return fail(c, fiber.StatusBadRequest, "missing code/state")
	}

	stCookie := c.Cookies("oauth_state")
	next := c.Cookies("oauth_next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	if stCookie == "" || stCookie != state {
		return fail(c, fiber.StatusBadRequest, "invalid state")
	}

	tok, err := h.oauthCfg().Exchange(c.Context(), code)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "failed to exchange code")
	}

	client := h.oauthCfg().Client(c.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "failed to fetch userinfo")
	}
	defer resp.Body.Close()

	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return fail(c, fiber.StatusBadRequest, "failed to decode userinfo")
	}
	if strings.TrimSpace(gu.Email) == "" {
		return fail(c, fiber.StatusBadRequest, "email not provided by Google")
	}

	u, _, err := h.findOrCreateByEmail(gu.Email, gu.Name, gu.ID)
	if err != nil {
		return fail500(c, "failed to link account")
	}
	if !u.IsActive {
		dest := h.FrontendBaseURL + "/auth/login?err=" + url.QueryEscape("account is inactive")
		return c.Redirect(dest, http.StatusTemporaryRedirect)
	}

	pair, err := h.Tokens.Issue(c.Context(), u.ID, u.Role)
	if err != nil {
		return fail500(c, "failed to create token")
	}

	setAuthCookie(c, pair.AccessToken, h.Tokens.AccessTokenMaxAge())
	c.Cookie(&fiber.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1, HTTPOnly: true, SameSite: "Lax"})
	c.Cookie(&fiber.Cookie{Name: "oauth_next", Value: "", Path: "/", MaxAge: -1, HTTPOnly: true, SameSite: "Lax"})

	return c.Redirect(h.FrontendBaseURL+next, http.StatusTemporaryRedirect)
}
