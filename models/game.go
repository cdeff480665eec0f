package models

import (
	"time"
)

// DefaultPlaytimeMinutes is used when a catalog entry has no playtime estimate.
const DefaultPlaytimeMinutes = 60

// Game represents a catalog entry on the venue's shelf
type Game struct {
	ID                       int64          `db:"id"`
	Title                    string         `db:"title"`
	Price                    string         `db:"price"`
	ImageURL                 string         `db:"image_url"`
	IsAvailable              bool           `db:"is_available"`
	EstimatedPlaytimeMinutes int            `db:"estimated_playtime_minutes"`
	Metadata                 map[string]any `db:"metadata"`
	CreatedAt                time.Time      `db:"created_at"`
}
