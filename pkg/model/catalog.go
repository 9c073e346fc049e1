package model

import "github.com/google/uuid"

// BudgetCap is the maximum total price of a fantasy team's selections.
const BudgetCap int64 = 100_000_000

const (
	// MaxTeamDrivers limits how many drivers a real team may have under contract.
	MaxTeamDrivers = 3
	// MaxFantasyDrivers limits how many drivers a fantasy team may pick.
	MaxFantasyDrivers = 5
)

type Driver struct {
	ID     uuid.UUID
	Name   string
	Price  int64
	Points int64
	// TeamID is the real-world contract. nil means free agent.
	TeamID *uuid.UUID
}

type Team struct {
	ID    uuid.UUID
	Name  string
	Price int64
	Score int64
}
