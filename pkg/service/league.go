//nolint:whitespace // can't make both editor and linter happy
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridfantasy/fantasy-league-manager-go/log"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/model"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/fantasyteam"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/league"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/utils"
)

// the join-code keyspace is small, so generation checks the registry
// and retries a bounded number of times
const codeAttempts = 5

// LeagueService manages public/private league membership and derives
// standings from the members' fantasy teams.
type LeagueService struct {
	pool   *pgxpool.Pool
	log    *log.Logger
	clock  clock.Clock
	tracer trace.Tracer
}

type LeagueOption func(*LeagueService)

func WithLeagueClock(c clock.Clock) LeagueOption {
	return func(s *LeagueService) {
		s.clock = c
	}
}

func WithLeagueTracer(tracer trace.Tracer) LeagueOption {
	return func(s *LeagueService) {
		s.tracer = tracer
	}
}

func NewLeagueService(pool *pgxpool.Pool, opts ...LeagueOption) *LeagueService {
	ret := &LeagueService{
		pool: pool,
		log:  log.Default().Named("service.league"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.clock == nil {
		ret.clock = clock.New()
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("flm")
	}
	return ret
}

// Create registers a league. Private leagues get a join code that is
// guaranteed unique among all issued codes at creation time.
func (s *LeagueService) Create(
	ctx context.Context,
	name string,
	leagueType model.LeagueType,
	teamRestriction *uuid.UUID,
) (*model.League, error) {
	if name == "" {
		return nil, fmt.Errorf("name must be provided")
	}
	if leagueType != model.LeaguePublic && leagueType != model.LeaguePrivate {
		return nil, fmt.Errorf("unknown league type %q", leagueType)
	}

	var ret *model.League
	if err := runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		code := ""
		if leagueType == model.LeaguePrivate {
			var err error
			if code, err = s.generateCode(ctx, tx); err != nil {
				return err
			}
		}
		var err error
		ret, err = league.Create(ctx, tx, &model.League{
			Name:            name,
			Type:            leagueType,
			TeamRestriction: teamRestriction,
			Code:            code,
		})
		return err
	}); err != nil {
		return nil, err
	}
	s.log.Info("league created",
		log.String("id", ret.ID.String()),
		log.String("type", string(ret.Type)))
	return ret, nil
}

// JoinPublic adds the user to a public league with the given fantasy team.
func (s *LeagueService) JoinPublic(
	ctx context.Context,
	leagueID uuid.UUID,
	userID string,
	fantasyTeamID uuid.UUID,
) error {
	return runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		l, err := league.LoadByID(ctx, tx, leagueID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		// private leagues are only joinable through their code
		if l.Type != model.LeaguePublic {
			return ErrNotFound
		}
		return s.join(ctx, tx, l, userID, fantasyTeamID)
	})
}

// JoinPrivate adds the user to the league matching the join code.
func (s *LeagueService) JoinPrivate(
	ctx context.Context,
	code string,
	userID string,
	fantasyTeamID uuid.UUID,
) (*model.League, error) {
	var ret *model.League
	if err := runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		l, err := league.LoadByCode(ctx, tx, code)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidCode
			}
			return err
		}
		if err := s.join(ctx, tx, l, userID, fantasyTeamID); err != nil {
			return err
		}
		ret = l
		return nil
	}); err != nil {
		return nil, err
	}
	return ret, nil
}

// UpdateMemberTeam replaces the member's active fantasy team for the league.
// The new team is validated against the league's restriction again.
func (s *LeagueService) UpdateMemberTeam(
	ctx context.Context,
	leagueID uuid.UUID,
	userID string,
	fantasyTeamID uuid.UUID,
) error {
	return runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		l, err := league.LoadByID(ctx, tx, leagueID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if _, err := league.LoadMember(ctx, tx, leagueID, userID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if err := s.checkFantasyTeam(ctx, tx, l, userID, fantasyTeamID); err != nil {
			return err
		}
		_, err = league.UpdateMemberTeam(ctx, tx, leagueID, userID, fantasyTeamID)
		return err
	})
}

// Standings derives the league table at call time. Members are ranked by
// their fantasy team's current points, descending; members on equal points
// keep their join order (stable sort over the insertion sequence).
func (s *LeagueService) Standings(ctx context.Context, leagueID uuid.UUID) (
	[]model.Standing, error,
) {
	ctx, span := s.tracer.Start(ctx, "league.standings")
	defer span.End()

	if _, err := league.LoadByID(ctx, s.pool, leagueID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	members, err := league.LoadMembers(ctx, s.pool, leagueID)
	if err != nil {
		return nil, err
	}

	ret := make([]model.Standing, 0, len(members))
	for _, m := range members {
		ft, err := fantasyteam.LoadByID(ctx, s.pool, m.FantasyTeamID)
		if err != nil {
			return nil, err
		}
		pts, err := fantasyteam.CurrentPoints(ctx, s.pool, m.FantasyTeamID)
		if err != nil {
			return nil, err
		}
		ret = append(ret, model.Standing{
			Username: m.UserID,
			TeamName: ft.Name,
			Points:   pts,
		})
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Points > ret[j].Points
	})
	return ret, nil
}

func (s *LeagueService) Get(ctx context.Context, id uuid.UUID) (
	*model.League, error,
) {
	ret, err := league.LoadByID(ctx, s.pool, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ret, nil
}

func (s *LeagueService) ListPublic(ctx context.Context) ([]*model.League, error) {
	return league.LoadPublic(ctx, s.pool)
}

func (s *LeagueService) ListJoined(ctx context.Context, userID string) (
	[]*model.League, error,
) {
	return league.LoadJoinedByUser(ctx, s.pool, userID)
}

func (s *LeagueService) Members(ctx context.Context, leagueID uuid.UUID) (
	[]*model.LeagueMember, error,
) {
	return league.LoadMembers(ctx, s.pool, leagueID)
}

func (s *LeagueService) join(
	ctx context.Context,
	tx pgx.Tx,
	l *model.League,
	userID string,
	fantasyTeamID uuid.UUID,
) error {
	if _, err := league.LoadMember(ctx, tx, l.ID, userID); err == nil {
		return &AlreadyMemberError{LeagueID: l.ID, UserID: userID}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if err := s.checkFantasyTeam(ctx, tx, l, userID, fantasyTeamID); err != nil {
		return err
	}
	return league.AddMember(ctx, tx, &model.LeagueMember{
		LeagueID:      l.ID,
		UserID:        userID,
		FantasyTeamID: fantasyTeamID,
		JoinedAt:      s.clock.Now().UTC(),
	})
}

// checkFantasyTeam verifies the fantasy team exists, belongs to the user
// and satisfies the league's real-team restriction.
func (s *LeagueService) checkFantasyTeam(
	ctx context.Context,
	tx pgx.Tx,
	l *model.League,
	userID string,
	fantasyTeamID uuid.UUID,
) error {
	ft, err := fantasyteam.LoadByID(ctx, tx, fantasyTeamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if ft.OwnerID != userID {
		return ErrNotOwner
	}
	if l.TeamRestriction != nil && ft.TeamID != *l.TeamRestriction {
		return &RestrictedLeagueError{
			LeagueID:       l.ID,
			RequiredTeamID: *l.TeamRestriction,
		}
	}
	return nil
}

func (s *LeagueService) generateCode(ctx context.Context, tx pgx.Tx) (
	string, error,
) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := utils.NewJoinCode()
		exists, err := league.CodeExists(ctx, tx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		s.log.Warn("join code collision", log.String("code", code))
	}
	return "", fmt.Errorf("could not generate a unique join code after %d attempts",
		codeAttempts)
}
