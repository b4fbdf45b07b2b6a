package db

import (
	"gorm.io/gorm"

	"github.com/artfit-app/backend/internal/models"
)

var defaultSkillTags = []models.SkillTag{
	{Name: "UI/UX", Kind: models.TagKindRole},
	{Name: "Front-end", Kind: models.TagKindRole},
	{Name: "Back-end", Kind: models.TagKindRole},
	{Name: "Figma", Kind: models.TagKindTool},
	{Name: "Vue.js", Kind: models.TagKindTool},
	{Name: "React", Kind: models.TagKindTool},
	{Name: "Django", Kind: models.TagKindTool},
	{Name: "PostgreSQL", Kind: models.TagKindTool},
	{Name: "Minimalist", Kind: models.TagKindStyle},
	{Name: "Playful", Kind: models.TagKindStyle},
	{Name: "Game UI", Kind: models.TagKindGenre},
	{Name: "Web App", Kind: models.TagKindGenre},
}

// SeedSkillTags inserts the default tag set, skipping names that already
// exist. Safe to run repeatedly.
func SeedSkillTags(gdb *gorm.DB) (int, error) {
	created := 0
	for _, tag := range defaultSkillTags {
		var existing models.SkillTag
		res := gdb.Where(models.SkillTag{Name: tag.Name}).
			Attrs(models.SkillTag{Kind: tag.Kind}).
			FirstOrCreate(&existing)
		if res.Error != nil {
			return created, res.Error
		}
		if res.RowsAffected > 0 {
			created++
		}
	}
	return created, nil
}
