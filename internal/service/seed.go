package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/club-admin/internal/auth"
	"github.com/spec-kit/club-admin/internal/config"
	"github.com/spec-kit/club-admin/internal/domain"
	"github.com/spec-kit/club-admin/internal/repository"
)

// EnsureSeedAdmin creates the bootstrap super admin when the staff store is
// empty, so a fresh deployment has a way in. No-op when accounts exist or
// when seed credentials are not configured.
func EnsureSeedAdmin(ctx context.Context, staff repository.StaffRepository, cfg config.SeedConfig, authCfg config.AuthConfig, logger *zap.Logger) error {
	existing, err := staff.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Warn("staff store is empty and no seed admin configured")
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, authCfg.BcryptCost)
	if err != nil {
		return err
	}
	account := &domain.StaffAccount{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		Active:       true,
	}
	if err := staff.Create(ctx, account); err != nil {
		return err
	}
	logger.Info("seeded super admin account", zap.String("staff_id", account.ID))
	return nil
}
