//nolint:whitespace // can't make both editor and linter happy
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridfantasy/fantasy-league-manager-go/log"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/model"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/driver"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/team"
)

// CatalogService manages the canonical drivers and teams and the
// real-team roster assignments.
type CatalogService struct {
	pool   *pgxpool.Pool
	log    *log.Logger
	tracer trace.Tracer
}

type CatalogOption func(*CatalogService)

func WithCatalogTracer(tracer trace.Tracer) CatalogOption {
	return func(s *CatalogService) {
		s.tracer = tracer
	}
}

func NewCatalogService(pool *pgxpool.Pool, opts ...CatalogOption) *CatalogService {
	ret := &CatalogService{
		pool: pool,
		log:  log.Default().Named("service.catalog"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("flm")
	}
	return ret
}

func (s *CatalogService) CreateDriver(
	ctx context.Context,
	name string,
	price int64,
) (*model.Driver, error) {
	if err := validateCatalogEntry(name, price); err != nil {
		return nil, err
	}
	var ret *model.Driver
	if err := runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		ret, err = driver.Create(ctx, tx, &model.Driver{Name: name, Price: price})
		return err
	}); err != nil {
		return nil, err
	}
	s.log.Debug("driver created",
		log.String("id", ret.ID.String()), log.String("name", ret.Name))
	return ret, nil
}

func (s *CatalogService) UpdateDriver(
	ctx context.Context,
	id uuid.UUID,
	name string,
	price int64,
) (*model.Driver, error) {
	if err := validateCatalogEntry(name, price); err != nil {
		return nil, err
	}
	var ret *model.Driver
	if err := runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		ret, err = driver.Update(ctx, tx,
			&model.Driver{ID: id, Name: name, Price: price})
		return err
	}); err != nil {
		return nil, asNotFound(err)
	}
	return ret, nil
}

// DeleteDriver removes a driver from the catalog. Drivers referenced by a
// race result or a fantasy team stay (ErrStillReferenced).
func (s *CatalogService) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	err := runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		num, err := driver.DeleteByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if num == 0 {
			return ErrNotFound
		}
		return nil
	})
	if isForeignKeyViolation(err) {
		return ErrStillReferenced
	}
	return err
}

func (s *CatalogService) GetDriver(ctx context.Context, id uuid.UUID) (
	*model.Driver, error,
) {
	ret, err := driver.LoadByID(ctx, s.pool, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return ret, nil
}

func (s *CatalogService) ListDrivers(ctx context.Context) ([]*model.Driver, error) {
	return driver.LoadAll(ctx, s.pool)
}

func (s *CatalogService) CreateTeam(
	ctx context.Context,
	name string,
	price int64,
) (*model.Team, error) {
	if err := validateCatalogEntry(name, price); err != nil {
		return nil, err
	}
	var ret *model.Team
	if err := runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		ret, err = team.Create(ctx, tx, &model.Team{Name: name, Price: price})
		return err
	}); err != nil {
		return nil, err
	}
	s.log.Debug("team created",
		log.String("id", ret.ID.String()), log.String("name", ret.Name))
	return ret, nil
}

func (s *CatalogService) UpdateTeam(
	ctx context.Context,
	id uuid.UUID,
	name string,
	price int64,
) (*model.Team, error) {
	if err := validateCatalogEntry(name, price); err != nil {
		return nil, err
	}
	var ret *model.Team
	if err := runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		ret, err = team.Update(ctx, tx, &model.Team{ID: id, Name: name, Price: price})
		return err
	}); err != nil {
		return nil, asNotFound(err)
	}
	return ret, nil
}

// DeleteTeam removes a team. Teams with contracted drivers, fantasy picks
// or league restrictions pointing at them stay (ErrStillReferenced).
func (s *CatalogService) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	err := runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		num, err := team.DeleteByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if num == 0 {
			return ErrNotFound
		}
		return nil
	})
	if isForeignKeyViolation(err) {
		return ErrStillReferenced
	}
	return err
}

func (s *CatalogService) GetTeam(ctx context.Context, id uuid.UUID) (
	*model.Team, error,
) {
	ret, err := team.LoadByID(ctx, s.pool, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return ret, nil
}

func (s *CatalogService) ListTeams(ctx context.Context) ([]*model.Team, error) {
	return team.LoadAll(ctx, s.pool)
}

// AvailableDrivers returns the pool the admin may pick for a team's roster:
// free agents plus the team's current drivers. Drivers contracted elsewhere
// are not offered.
func (s *CatalogService) AvailableDrivers(ctx context.Context, teamID uuid.UUID) (
	[]*model.Driver, error,
) {
	if _, err := team.LoadByID(ctx, s.pool, teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnknownTeamError{TeamID: teamID.String()}
		}
		return nil, err
	}
	return driver.LoadSelectable(ctx, s.pool, teamID)
}

// SaveTeamRoster replaces the team's contracted drivers. A driver under
// contract to a different team fails the whole save; re-submitting the
// team's current roster succeeds unchanged.
func (s *CatalogService) SaveTeamRoster(
	ctx context.Context,
	teamID uuid.UUID,
	driverIDs []uuid.UUID,
) (*model.Team, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.saveTeamRoster")
	defer span.End()

	if len(driverIDs) > model.MaxTeamDrivers {
		return nil, fmt.Errorf("a team may contract at most %d drivers, got %d",
			model.MaxTeamDrivers, len(driverIDs))
	}
	if len(lo.Uniq(driverIDs)) != len(driverIDs) {
		return nil, fmt.Errorf("duplicate driver in roster")
	}

	var ret *model.Team
	if err := runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := team.LoadByID(ctx, tx, teamID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &UnknownTeamError{TeamID: teamID.String()}
			}
			return err
		}
		drivers, err := driver.LoadByIDs(ctx, tx, driverIDs)
		if err != nil {
			return err
		}
		if missing := missingID(driverIDs, drivers); missing != "" {
			return &UnknownDriverError{DriverID: missing}
		}
		for _, d := range drivers {
			if d.TeamID != nil && *d.TeamID != teamID {
				return &DriverAlreadyAssignedError{DriverID: d.ID, TeamID: *d.TeamID}
			}
		}
		if _, err := driver.ClearTeam(ctx, tx, teamID); err != nil {
			return err
		}
		if len(driverIDs) > 0 {
			if _, err := driver.AssignTeam(ctx, tx, teamID, driverIDs); err != nil {
				return err
			}
		}
		// contract changes move points between team totals
		if _, err := team.RecomputeScores(ctx, tx); err != nil {
			return err
		}
		ret, err = team.LoadByID(ctx, tx, teamID)
		return err
	}); err != nil {
		return nil, err
	}
	s.log.Info("team roster saved",
		log.String("team", teamID.String()),
		log.Int("drivers", len(driverIDs)))
	return ret, nil
}

// TeamRoster returns the drivers currently contracted to the team.
func (s *CatalogService) TeamRoster(ctx context.Context, teamID uuid.UUID) (
	[]*model.Driver, error,
) {
	return driver.LoadByTeamID(ctx, s.pool, teamID)
}

func validateCatalogEntry(name string, price int64) error {
	if name == "" {
		return fmt.Errorf("name must be provided")
	}
	if price < 0 {
		return fmt.Errorf("price must not be negative, got %d", price)
	}
	return nil
}

// missingID returns the first requested id without a loaded driver.
func missingID(want []uuid.UUID, got []*model.Driver) string {
	loaded := lo.Associate(got, func(d *model.Driver) (uuid.UUID, bool) {
		return d.ID, true
	})
	for _, id := range want {
		if !loaded[id] {
			return id.String()
		}
	}
	return ""
}

func asNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || isNoData(err) {
		return ErrNotFound
	}
	return err
}
