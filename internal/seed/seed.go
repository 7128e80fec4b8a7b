// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much data Run creates.
type Options struct {
	Users        int
	PostsPerUser int
	Password     string
}

// DefaultOptions seeds a small but browsable dataset.
func DefaultOptions() Options {
	return Options{
		Users:        5,
		PostsPerUser: 4,
		Password:     "password123",
	}
}

// Run populates the database with fake users and posts. It is idempotent
// per email: existing users are reused rather than duplicated.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	for i := 0; i < opts.Users; i++ {
		email := fmt.Sprintf("%s%d@example.com", gofakeit.Username(), i)

		var user models.User
		result := db.Where("email = ?", email).First(&user)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up seed user: %w", result.Error)
			}
			user = models.User{
				Email:    email,
				Name:     gofakeit.Name(),
				Password: string(hashed),
				Status:   gofakeit.Quote(),
			}
			if err := db.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create seed user: %w", err)
			}
		}

		for j := 0; j < opts.PostsPerUser; j++ {
			post := models.Post{
				Title:     gofakeit.Sentence(5),
				Content:   gofakeit.Paragraph(1, 3, 5, "\n"),
				CreatorID: user.ID,
			}
			// Spread creation times so the feed ordering is visible.
			daysBack := r.Intn(60)
			hoursBack := r.Intn(24)
			post.CreatedAt = time.Now().
				Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

			if err := db.Create(&post).Error; err != nil {
				return fmt.Errorf("failed to create seed post: %w", err)
			}
		}
	}

	return nil
}
