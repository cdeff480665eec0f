package testutil

import (
	"tabletop/models"
)

// NewTestGame builds an unsaved catalog entry for tests
func NewTestGame(title string) *models.Game {
	return &models.Game{
		Title:                    title,
		Price:                    "34.99",
		IsAvailable:              true,
		EstimatedPlaytimeMinutes: 90,
		Metadata:                 map[string]any{"players": "2-4"},
	}
}

// NewTestVenueDefaults builds the venue config defaults used by tests
func NewTestVenueDefaults() *models.VenueConfig {
	return &models.VenueConfig{
		MaxCapacity: 40,
		MaxTables:   10,
		OpenHour:    10,
		CloseHour:   23,
	}
}
