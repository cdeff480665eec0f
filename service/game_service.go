package service

import (
	"context"
	"fmt"
	"strings"

	"tabletop/models"
)

type gameService struct {
	uowFactory UnitOfWorkFactory
}

// NewGameService creates a new game catalog service
func NewGameService(uowFactory UnitOfWorkFactory) GameService {
	return &gameService{uowFactory: uowFactory}
}

// CreateGame adds a catalog entry
func (s *gameService) CreateGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	if strings.TrimSpace(game.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidParameters)
	}
	if game.EstimatedPlaytimeMinutes <= 0 {
		game.EstimatedPlaytimeMinutes = models.DefaultPlaytimeMinutes
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GameRepository().Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return game, nil
}

// GetGame retrieves a game by ID
func (s *gameService) GetGame(ctx context.Context, gameID int64) (*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}

	return game, nil
}

// ListGames returns the full catalog
func (s *gameService) ListGames(ctx context.Context) ([]*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	games, err := uow.GameRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

// SetAvailability flips the staff shelf toggle for a game
func (s *gameService) SetAvailability(ctx context.Context, gameID int64, available bool) (*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}

	if err := uow.GameRepository().SetAvailability(ctx, gameID, available); err != nil {
		return nil, fmt.Errorf("failed to set availability: %w", err)
	}
	game.IsAvailable = available

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return game, nil
}
