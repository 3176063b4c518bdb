package services

import (
	"context"
	"fmt"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
)

var _ AdminService = (*AdminServiceImpl)(nil)

// ErrSuperAdminOnly rejects a manager directory request from a regular manager
var ErrSuperAdminOnly = fmt.Errorf("super admin only: %w", ErrForbidden)

// AdminServiceImpl lists manager accounts and their campaigns
type AdminServiceImpl struct {
	managers  repositories.ManagerRepository
	campaigns repositories.CampaignRepository
}

// NewAdminService creates a new AdminServiceImpl
func NewAdminService(store *repositories.Store) *AdminServiceImpl {
	return &AdminServiceImpl{managers: store.Managers, campaigns: store.Campaigns}
}

func requireSuperAdmin(actor Actor) error {
	if !actor.IsSuperAdmin() {
		logx.L().Warnw("Manager directory access denied", "managerId", actor.ManagerID)
		return ErrSuperAdminOnly
	}
	return nil
}

// ListManagers returns every manager with the number of campaigns they own
func (s *AdminServiceImpl) ListManagers(ctx context.Context, actor Actor) ([]*models.ManagerSummary, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	managers, err := s.managers.FindAll(ctx)
	if err != nil {
		return nil, storeErr("list managers", err)
	}
	campaigns, err := s.campaigns.FindAll(ctx)
	if err != nil {
		return nil, storeErr("list campaigns", err)
	}

	counts := make(map[string]int, len(managers))
	for _, c := range campaigns {
		counts[c.ManagerID]++
	}
	out := make([]*models.ManagerSummary, 0, len(managers))
	for _, m := range managers {
		out = append(out, &models.ManagerSummary{Manager: *m, CampaignCount: counts[m.ID]})
	}
	return out, nil
}

// ManagerCampaigns returns the campaigns of one manager, newest first
func (s *AdminServiceImpl) ManagerCampaigns(ctx context.Context, actor Actor, managerID string) ([]*models.Campaign, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.managers.FindByID(ctx, managerID); err != nil {
		return nil, storeErr("load manager", err)
	}
	campaigns, err := s.campaigns.FindByManager(ctx, managerID)
	if err != nil {
		return nil, storeErr("list campaigns", err)
	}
	return campaigns, nil
}
