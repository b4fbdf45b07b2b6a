package db

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/artfit-app/backend/internal/models"
)

func TestSeedSkillTagsIsIdempotent(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	created, err := SeedSkillTags(gdb)
	require.NoError(t, err)
	assert.Equal(t, len(defaultSkillTags), created)

	created, err = SeedSkillTags(gdb)
	require.NoError(t, err)
	assert.Zero(t, created, "re-running must not duplicate tags")

	var count int64
	gdb.Model(&models.SkillTag{}).Count(&count)
	assert.EqualValues(t, len(defaultSkillTags), count)
}

func TestSeedSkillTagsKeepsManualEdits(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	// an operator-created tag sharing a default name keeps its kind
	require.NoError(t, gdb.Create(&models.SkillTag{Name: "Figma", Kind: models.TagKindStyle}).Error)

	_, err = SeedSkillTags(gdb)
	require.NoError(t, err)

	var tag models.SkillTag
	require.NoError(t, gdb.First(&tag, "name = ?", "Figma").Error)
	assert.Equal(t, models.TagKindStyle, tag.Kind)
}
