// Package seed creates the initial records a fresh deployment needs.
package seed

import (
	"context"
	"fmt"

	"github.com/toma828/HinaBaby/internal/app/models"
	"github.com/toma828/HinaBaby/internal/app/repositories"
	"github.com/toma828/HinaBaby/internal/config"
	"github.com/toma828/HinaBaby/internal/pkg/auth"
	"github.com/toma828/HinaBaby/internal/pkg/logger"
)

// CreateDefaultTeacher inserts the configured teacher account when the
// users table is empty. It is a no-op when seeding is disabled or any
// user already exists.
func CreateDefaultTeacher(ctx context.Context, cfg *config.Config, userRepo repositories.IUserRepository) error {
	if !cfg.Seed.DefaultTeacher {
		return nil
	}

	count, err := userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		logger.Debug().Msg("Users already exist, skipping default teacher seed")
		return nil
	}

	hashed, err := auth.HashPassword(cfg.Seed.TeacherPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	teacher := &models.User{
		Username: cfg.Seed.TeacherUsername,
		Email:    cfg.Seed.TeacherEmail,
		Password: hashed,
		RoleType: models.RoleTeacher,
		IsActive: true,
	}
	if err := userRepo.Create(ctx, teacher); err != nil {
		return fmt.Errorf("failed to create default teacher: %w", err)
	}

	logger.Info().Str("username", teacher.Username).Msg("Default teacher account created")
	return nil
}
