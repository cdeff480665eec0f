package service

import (
	"context"
	"fmt"

	"tabletop/config"
	"tabletop/models"
)

type venueService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
}

// NewVenueService creates a new venue service
func NewVenueService(uowFactory UnitOfWorkFactory, cfg *config.Config) VenueService {
	return &venueService{
		uowFactory: uowFactory,
		config:     cfg,
	}
}

// Occupancy returns total seats consumed by all ACTIVE sessions
func (s *venueService) Occupancy(ctx context.Context) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	occupancy, err := uow.SessionRepository().ActiveOccupancy(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to compute occupancy: %w", err)
	}

	return occupancy, nil
}

// AvailableCapacity returns max capacity minus occupancy, floored at zero
func (s *venueService) AvailableCapacity(ctx context.Context) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	venueCfg, err := uow.VenueConfigRepository().GetOrCreate(ctx, venueDefaults(s.config))
	if err != nil {
		return 0, fmt.Errorf("failed to get venue config: %w", err)
	}

	occupancy, err := uow.SessionRepository().ActiveOccupancy(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to compute occupancy: %w", err)
	}

	return venueCfg.AvailableCapacity(occupancy), nil
}

// CanAccommodate checks whether n more occupants fit within max capacity.
// Advisory when called standalone; admission decisions inside session
// operations re-check within their own transaction.
func (s *venueService) CanAccommodate(ctx context.Context, n int) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	venueCfg, err := uow.VenueConfigRepository().GetOrCreate(ctx, venueDefaults(s.config))
	if err != nil {
		return false, fmt.Errorf("failed to get venue config: %w", err)
	}

	occupancy, err := uow.SessionRepository().ActiveOccupancy(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to compute occupancy: %w", err)
	}

	return venueCfg.CanAccommodate(occupancy, n), nil
}

// GetConfig returns the venue config, creating the row with defaults when absent
func (s *venueService) GetConfig(ctx context.Context) (*models.VenueConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	venueCfg, err := uow.VenueConfigRepository().GetOrCreate(ctx, venueDefaults(s.config))
	if err != nil {
		return nil, fmt.Errorf("failed to get venue config: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return venueCfg, nil
}

// UpdateConfig applies administrative changes to the venue config.
// Lowering max capacity never evicts sessions that are already active;
// they stay grandfathered until they finish.
func (s *venueService) UpdateConfig(ctx context.Context, venueCfg *models.VenueConfig) (*models.VenueConfig, error) {
	if venueCfg.MaxCapacity < 1 {
		return nil, fmt.Errorf("%w: max capacity must be positive", ErrInvalidParameters)
	}
	if venueCfg.OpenHour < 0 || venueCfg.OpenHour > 23 || venueCfg.CloseHour < 0 || venueCfg.CloseHour > 24 {
		return nil, fmt.Errorf("%w: operating hours out of range", ErrInvalidParameters)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Ensure the singleton row exists before updating it
	if _, err := uow.VenueConfigRepository().GetOrCreate(ctx, venueDefaults(s.config)); err != nil {
		return nil, fmt.Errorf("failed to get venue config: %w", err)
	}

	if err := uow.VenueConfigRepository().Update(ctx, venueCfg); err != nil {
		return nil, fmt.Errorf("failed to update venue config: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return venueCfg, nil
}
