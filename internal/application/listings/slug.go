package listings

import (
	"fmt"
	"regexp"
	"strings"

	"casavia-backend/internal/domain"

	"gorm.io/gorm"
)

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title, collapses every run of non-alphanumeric
// characters into a single hyphen and strips leading/trailing hyphens.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugNonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// maxSlugAttempts bounds the collision probe loop.
const maxSlugAttempts = 500

// uniqueSlug derives a slug from title and probes the store for collisions,
// suffixing -1, -2, ... until a free slug is found. Runs on the caller's
// transaction so the probe and the insert see the same state.
func uniqueSlug(tx *gorm.DB, title string) (string, error) {
	base := Slugify(title)
	slug := base
	for i := 1; ; i++ {
		var count int64
		if err := tx.Model(&domain.Listing{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		if i > maxSlugAttempts {
			return "", ErrSlugExhausted
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
