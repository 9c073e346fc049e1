package model

import (
	"time"

	"github.com/google/uuid"
)

type LeagueType string

const (
	LeaguePublic  LeagueType = "public"
	LeaguePrivate LeagueType = "private"
)

type League struct {
	ID   uuid.UUID
	Name string
	Type LeagueType
	// TeamRestriction limits members' real-team pick when set.
	TeamRestriction *uuid.UUID
	// Code is the join secret, present iff the league is private.
	Code string
}

type LeagueMember struct {
	LeagueID      uuid.UUID
	UserID        string
	FantasyTeamID uuid.UUID
	JoinedAt      time.Time
	// Seq preserves join order for the standings tie-break.
	Seq int64
}

// Standing is derived at query time, never stored.
type Standing struct {
	Username string
	TeamName string
	Points   int64
}
