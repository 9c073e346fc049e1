package model

import (
	"time"

	"github.com/google/uuid"
)

type Race struct {
	ID   uuid.UUID
	Name string
	Date time.Time
}

// RaceResult is one ledger entry: the points a driver earned in a race.
// A race has at most 10 entries (top-10 finishers); every other driver
// implicitly scores 0.
type RaceResult struct {
	RaceID   uuid.UUID
	DriverID uuid.UUID
	Position int
	Points   int
}
