package admin

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"branchout/internal/app/content"
	"branchout/internal/models"
	"branchout/internal/rolegate"
)

// Store defines persistence operations for the organization review queue.
type Store interface {
	ListPendingOrgs(ctx context.Context) ([]models.Profile, error)
	SetRoleFromPending(ctx context.Context, id string, role models.Role) error
}

// Service exposes the admin review workflow over pending organizations.
type Service interface {
	PendingOrgs(ctx context.Context, reviewer models.Profile) ([]models.Profile, error)
	ApproveOrg(ctx context.Context, reviewer models.Profile, orgID string) error
	DenyOrg(ctx context.Context, reviewer models.Profile, orgID string) error
}

type service struct {
	store  Store
	logger zerolog.Logger
}

// New wires an admin Service backed by the provided Store.
func New(store Store, logger zerolog.Logger) Service {
	return &service{store: store, logger: logger}
}

func (s *service) PendingOrgs(ctx context.Context, reviewer models.Profile) ([]models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d := rolegate.Decide(reviewer.Role, rolegate.ActionReviewOrgs); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", content.ErrForbidden, d.Reason)
	}
	return s.store.ListPendingOrgs(ctx)
}

// ApproveOrg promotes a pending organization to approved_org. Deciding an
// already-decided profile fails with the store's not-pending error, so the
// first decision wins.
func (s *service) ApproveOrg(ctx context.Context, reviewer models.Profile, orgID string) error {
	return s.decide(ctx, reviewer, orgID, models.RoleApprovedOrg)
}

// DenyOrg returns a pending organization to the plain user role.
func (s *service) DenyOrg(ctx context.Context, reviewer models.Profile, orgID string) error {
	return s.decide(ctx, reviewer, orgID, models.RoleUser)
}

func (s *service) decide(ctx context.Context, reviewer models.Profile, orgID string, role models.Role) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d := rolegate.Decide(reviewer.Role, rolegate.ActionReviewOrgs); !d.Allowed {
		return fmt.Errorf("%w: %s", content.ErrForbidden, d.Reason)
	}
	if err := s.store.SetRoleFromPending(ctx, orgID, role); err != nil {
		return fmt.Errorf("decide org %s: %w", orgID, err)
	}
	s.logger.Info().Str("org_id", orgID).Str("role", string(role)).Str("reviewer_id", reviewer.ID).Msg("org reviewed")
	return nil
}
