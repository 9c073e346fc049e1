package model

import "github.com/google/uuid"

type FantasyTeam struct {
	ID      uuid.UUID
	OwnerID string
	Name    string
	// TeamID is the real-team pick.
	TeamID uuid.UUID
	// DriverIDs are the picked drivers in slot order, at most MaxFantasyDrivers.
	DriverIDs []uuid.UUID
	// Price is the sum of the picked team's and drivers' prices,
	// computed and persisted on save.
	Price int64
}
