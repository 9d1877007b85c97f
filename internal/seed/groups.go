package seed

import (
	_ "embed"
	"fmt"

	"inkwell/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed groups.yml
var groupsYAML []byte

// GroupFixture is one entry of groups.yml.
type GroupFixture struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// ParseGroups decodes a groups fixture document.
func ParseGroups(data []byte) ([]GroupFixture, error) {
	var doc struct {
		Groups []GroupFixture `yaml:"groups"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse groups fixture: %w", err)
	}
	for i, g := range doc.Groups {
		if g.Slug == "" || g.Title == "" {
			return nil, fmt.Errorf("group fixture %d: title and slug are required", i)
		}
	}
	return doc.Groups, nil
}

// BuiltInGroups returns the groups embedded in the binary.
func BuiltInGroups() ([]GroupFixture, error) {
	return ParseGroups(groupsYAML)
}

// Groups upserts fixtures by slug and returns the stored rows. It is safe to
// run repeatedly.
func Groups(db *gorm.DB, fixtures []GroupFixture) ([]models.Group, error) {
	groups := make([]models.Group, 0, len(fixtures))
	for _, item := range fixtures {
		group := models.Group{
			Title:       item.Title,
			Slug:        item.Slug,
			Description: item.Description,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
		}).Create(&group).Error; err != nil {
			return nil, fmt.Errorf("seed group %s: %w", item.Slug, err)
		}
		if group.ID == 0 {
			if err := db.Where("slug = ?", item.Slug).First(&group).Error; err != nil {
				return nil, err
			}
		}
		groups = append(groups, group)
	}
	return groups, nil
}
