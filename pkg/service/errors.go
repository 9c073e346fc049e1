package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for conditions without extra context.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidCode     = errors.New("no league matches the join code")
	ErrNotOwner        = errors.New("caller does not own the fantasy team")
	ErrStillReferenced = errors.New("record is still referenced")
)

// UnknownDriverError reports a driver id that is not in the catalog.
type UnknownDriverError struct {
	DriverID string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown driver %s", e.DriverID)
}

// UnknownTeamError reports a team id that is not in the catalog.
type UnknownTeamError struct {
	TeamID string
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("unknown team %s", e.TeamID)
}

// DriverAlreadyAssignedError reports an exclusivity violation: the driver
// is under contract to another team.
type DriverAlreadyAssignedError struct {
	DriverID uuid.UUID
	TeamID   uuid.UUID // the team currently holding the contract
}

func (e *DriverAlreadyAssignedError) Error() string {
	return fmt.Sprintf("driver %s is already assigned to team %s",
		e.DriverID, e.TeamID)
}

// BudgetExceededError carries the computed total so the caller can show it.
type BudgetExceededError struct {
	Price int64
	Cap   int64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("selection price %d exceeds budget cap %d", e.Price, e.Cap)
}

// RestrictedLeagueError reports a real-team restriction mismatch.
type RestrictedLeagueError struct {
	LeagueID       uuid.UUID
	RequiredTeamID uuid.UUID
}

func (e *RestrictedLeagueError) Error() string {
	return fmt.Sprintf("league %s only admits fantasy teams backing team %s",
		e.LeagueID, e.RequiredTeamID)
}

// AlreadyMemberError reports a duplicate league join.
type AlreadyMemberError struct {
	LeagueID uuid.UUID
	UserID   string
}

func (e *AlreadyMemberError) Error() string {
	return fmt.Sprintf("user %s already joined league %s", e.UserID, e.LeagueID)
}
