package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"tabletop/database"
	"tabletop/models"

	"github.com/jackc/pgx/v5"
)

// GameRepository implements the service.GameRepository interface
type GameRepository struct {
	q queryable
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{q: db.Pool}
}

// newGameRepositoryWithTx creates a new game repository with a transaction
func newGameRepositoryWithTx(tx queryable) *GameRepository {
	return &GameRepository{q: tx}
}

// Create creates a new catalog entry
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	metadataJSON, err := json.Marshal(game.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal game metadata: %w", err)
	}

	query := `
		INSERT INTO games (title, price, image_url, is_available, estimated_playtime_minutes, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		game.Title,
		game.Price,
		game.ImageURL,
		game.IsAvailable,
		game.EstimatedPlaytimeMinutes,
		metadataJSON,
	).Scan(&game.ID, &game.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create game %q: %w", game.Title, err)
	}

	return nil
}

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	var metadataJSON []byte

	err := row.Scan(
		&game.ID,
		&game.Title,
		&game.Price,
		&game.ImageURL,
		&game.IsAvailable,
		&game.EstimatedPlaytimeMinutes,
		&metadataJSON,
		&game.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &game.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game metadata: %w", err)
		}
	}

	return &game, nil
}

const gameColumns = `
	id, title, price, image_url, is_available, estimated_playtime_minutes, metadata, created_at`

// GetByID retrieves a game by its ID
func (r *GameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	query := `SELECT` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}

	return game, nil
}

// GetByTitle retrieves a game by its unique title
func (r *GameRepository) GetByTitle(ctx context.Context, title string) (*models.Game, error) {
	query := `SELECT` + gameColumns + ` FROM games WHERE title = $1`

	game, err := scanGame(r.q.QueryRow(ctx, query, title))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %q: %w", title, err)
	}

	return game, nil
}

// GetAll returns the full catalog ordered by title
func (r *GameRepository) GetAll(ctx context.Context) ([]*models.Game, error) {
	query := `SELECT` + gameColumns + ` FROM games ORDER BY title`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}

	return games, nil
}

// SetAvailability flips the shelf availability flag
func (r *GameRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	query := `UPDATE games SET is_available = $2 WHERE id = $1`

	result, err := r.q.Exec(ctx, query, id, available)
	if err != nil {
		return fmt.Errorf("failed to set availability for game %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game %d not found", id)
	}

	return nil
}
