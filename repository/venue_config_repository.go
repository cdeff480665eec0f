package repository

import (
	"context"
	"fmt"

	"tabletop/database"
	"tabletop/models"

	"github.com/jackc/pgx/v5"
)

// venueConfigID pins the singleton row; the schema enforces id = 1.
const venueConfigID = 1

// VenueConfigRepository implements the service.VenueConfigRepository interface
type VenueConfigRepository struct {
	q queryable
}

// NewVenueConfigRepository creates a new venue config repository
func NewVenueConfigRepository(db *database.DB) *VenueConfigRepository {
	return &VenueConfigRepository{q: db.Pool}
}

// newVenueConfigRepositoryWithTx creates a new venue config repository with a transaction
func newVenueConfigRepositoryWithTx(tx queryable) *VenueConfigRepository {
	return &VenueConfigRepository{q: tx}
}

// GetOrCreate retrieves the venue config, creating it from the given
// defaults if no row exists yet
func (r *VenueConfigRepository) GetOrCreate(ctx context.Context, defaults *models.VenueConfig) (*models.VenueConfig, error) {
	query := `
		SELECT id, max_capacity, max_tables, open_hour, close_hour, updated_at
		FROM venue_config
		WHERE id = $1
	`

	var config models.VenueConfig
	err := r.q.QueryRow(ctx, query, venueConfigID).Scan(
		&config.ID,
		&config.MaxCapacity,
		&config.MaxTables,
		&config.OpenHour,
		&config.CloseHour,
		&config.UpdatedAt,
	)

	if err == nil {
		return &config, nil
	}

	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to get venue config: %w", err)
	}

	// Not found, create with defaults. ON CONFLICT covers the race where
	// two transactions both miss the row.
	insertQuery := `
		INSERT INTO venue_config (id, max_capacity, max_tables, open_hour, close_hour)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET id = venue_config.id
		RETURNING id, max_capacity, max_tables, open_hour, close_hour, updated_at
	`

	err = r.q.QueryRow(ctx, insertQuery,
		venueConfigID,
		defaults.MaxCapacity,
		defaults.MaxTables,
		defaults.OpenHour,
		defaults.CloseHour,
	).Scan(
		&config.ID,
		&config.MaxCapacity,
		&config.MaxTables,
		&config.OpenHour,
		&config.CloseHour,
		&config.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create venue config: %w", err)
	}

	return &config, nil
}

// Update persists administrative changes to the venue config
func (r *VenueConfigRepository) Update(ctx context.Context, config *models.VenueConfig) error {
	query := `
		UPDATE venue_config
		SET max_capacity = $2,
		    max_tables = $3,
		    open_hour = $4,
		    close_hour = $5,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		venueConfigID,
		config.MaxCapacity,
		config.MaxTables,
		config.OpenHour,
		config.CloseHour,
	)
	if err != nil {
		return fmt.Errorf("failed to update venue config: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue config not found")
	}

	return nil
}
