package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artfit-app/backend/internal/models"
)

func profileView(p *models.Profile) fiber.Map {
	if p == nil {
		return nil
	}
	return fiber.Map{
		"display_name":  p.DisplayName,
		"bio":           p.Bio,
		"location":      p.Location,
		"portfolio_url": p.PortfolioURL,
		"hourly_rate":   p.HourlyRate,
		"availability":  p.Availability,
		"avatar_url":    p.AvatarURL,
	}
}

func workView(w models.Work) fiber.Map {
	return fiber.Map{
		"id":              w.ID,
		"title":           w.Title,
		"image_url":       w.ImageURL,
		"image_transform": w.ImageTransform,
		"created_at":      w.CreatedAt,
	}
}

// accountView is the Account+Profile+Works shape returned by auth and /me.
// A missing profile serializes as null rather than failing the request.
func accountView(u *models.User) fiber.Map {
	works := make([]fiber.Map, 0, len(u.Works))
	for _, w := range u.Works {
		works = append(works, workView(w))
	}
	var profile fiber.Map
	if u.Profile != nil {
		profile = profileView(u.Profile)
	}
	return fiber.Map{
		"id":      u.ID,
		"handle":  u.Handle,
		"email":   u.Email,
		"role":    u.Role,
		"profile": profile,
		"works":   works,
	}
}

func tagView(t models.SkillTag) fiber.Map {
	return fiber.Map{"id": t.ID, "name": t.Name, "kind": t.Kind}
}

func projectView(p *models.Project) fiber.Map {
	tags := make([]fiber.Map, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, tagView(t))
	}
	return fiber.Map{
		"id":               p.ID,
		"owner_id":         p.OwnerID,
		"title":            p.Title,
		"description":      p.Description,
		"status":           p.Status,
		"budget_min":       p.BudgetMin,
		"budget_max":       p.BudgetMax,
		"looking_for_role": p.LookingForRole,
		"tags":             tags,
		"created_at":       p.CreatedAt,
	}
}

func proposalView(p *models.Proposal) fiber.Map {
	return fiber.Map{
		"id":           p.ID,
		"project_id":   p.ProjectID,
		"submitter_id": p.SubmitterID,
		"cover_letter": p.CoverLetter,
		"status":       p.Status,
		"created_at":   p.CreatedAt,
	}
}
