package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artfit-app/backend/internal/middleware"
)

// Set bundles every handler plus the middleware configuration so main and
// the tests register the exact same route table.
type Set struct {
	Auth      *AuthHandler
	Google    *GoogleAuthHandler
	Me        *MeHandler
	Works     *WorkHandler
	Skills    *SkillHandler
	Projects  *ProjectHandler
	Proposals *ProposalHandler
	JWTSecret string
}

func (s *Set) Register(app *fiber.App) {
	api := app.Group("/api")

	// public
	api.Post("/register", s.Auth.Register)
	api.Post("/auth/login", s.Auth.Login)
	api.Post("/auth/refresh", s.Auth.Refresh)
	api.Post("/auth/logout", s.Auth.Logout)
	api.Post("/auth/google", s.Google.Authenticate)
	api.Get("/auth/google/start", s.Google.Start)
	api.Get("/auth/google/callback", s.Google.Callback)

	// skills are readable and writable by anyone, per the open tag policy
	api.Get("/skills", s.Skills.List)
	api.Get("/skills/:id", s.Skills.Get)
	api.Post("/skills", s.Skills.Create)
	api.Put("/skills/:id", s.Skills.Update)
	api.Delete("/skills/:id", s.Skills.Delete)

	api.Get("/projects", s.Projects.List)
	api.Get("/projects/:id", s.Projects.Get)

	// proposal listing degrades to an empty set for anonymous callers
	api.Get("/proposals", middleware.OptionalAuth(s.JWTSecret), s.Proposals.List)

	// protected (JWT)
	auth := middleware.RequireAuth(s.JWTSecret)

	api.Get("/me", auth, s.Me.Me)
	api.Put("/me", auth, s.Me.UpdateMe)
	api.Put("/profile", auth, s.Me.UpdateProfile)

	api.Get("/works", auth, s.Works.List)
	api.Post("/works", auth, s.Works.Create)
	api.Put("/works/:id", auth, s.Works.Update)
	api.Delete("/works/:id", auth, s.Works.Delete)

	api.Post("/projects", auth, s.Projects.Create)
	api.Put("/projects/:id", auth, s.Projects.Update)
	api.Delete("/projects/:id", auth, s.Projects.Delete)

	api.Get("/proposals/:id", auth, s.Proposals.Get)
	api.Post("/proposals", auth, s.Proposals.Create)
	api.Put("/proposals/:id", auth, s.Proposals.Update)
	api.Delete("/proposals/:id", auth, s.Proposals.Delete)
}
