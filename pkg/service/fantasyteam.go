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
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/fantasyteam"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/team"
)

// FantasyTeamService validates and persists users' fantasy rosters
// against the budget cap.
type FantasyTeamService struct {
	pool   *pgxpool.Pool
	log    *log.Logger
	tracer trace.Tracer
}

type FantasyTeamOption func(*FantasyTeamService)

func WithFantasyTeamTracer(tracer trace.Tracer) FantasyTeamOption {
	return func(s *FantasyTeamService) {
		s.tracer = tracer
	}
}

func NewFantasyTeamService(
	pool *pgxpool.Pool,
	opts ...FantasyTeamOption,
) *FantasyTeamService {
	ret := &FantasyTeamService{
		pool: pool,
		log:  log.Default().Named("service.fantasyteam"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("flm")
	}
	return ret
}

// Save validates and persists a fantasy team. Checks run in order: the
// real-team pick must exist, every driver must exist, and the summed price
// must stay within the budget cap (spending exactly the cap is fine).
// Nothing is persisted unless every check passes; prices are never clamped.
func (s *FantasyTeamService) Save(
	ctx context.Context,
	ownerID string,
	name string,
	teamID uuid.UUID,
	driverIDs []uuid.UUID,
) (*model.FantasyTeam, error) {
	ctx, span := s.tracer.Start(ctx, "fantasyteam.save")
	defer span.End()

	if ownerID == "" {
		return nil, fmt.Errorf("owner must be provided")
	}
	if name == "" {
		return nil, fmt.Errorf("name must be provided")
	}
	if len(driverIDs) > model.MaxFantasyDrivers {
		return nil, fmt.Errorf("a fantasy team may pick at most %d drivers, got %d",
			model.MaxFantasyDrivers, len(driverIDs))
	}
	if len(lo.Uniq(driverIDs)) != len(driverIDs) {
		return nil, fmt.Errorf("duplicate driver in selection")
	}

	var ret *model.FantasyTeam
	if err := runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		realTeam, err := team.LoadByID(ctx, tx, teamID)
		if err != nil {
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

		price := realTeam.Price + lo.SumBy(drivers,
			func(d *model.Driver) int64 { return d.Price })
		if price > model.BudgetCap {
			return &BudgetExceededError{Price: price, Cap: model.BudgetCap}
		}

		ret, err = fantasyteam.Create(ctx, tx, &model.FantasyTeam{
			OwnerID:   ownerID,
			Name:      name,
			TeamID:    teamID,
			DriverIDs: driverIDs,
			Price:     price,
		})
		return err
	}); err != nil {
		return nil, err
	}
	s.log.Info("fantasy team saved",
		log.String("id", ret.ID.String()),
		log.String("owner", ownerID),
		log.Int64("price", ret.Price))
	return ret, nil
}

// Delete removes a fantasy team. Only the owner may delete it; a team still
// selected in a league fails with ErrStillReferenced.
func (s *FantasyTeamService) Delete(
	ctx context.Context,
	ownerID string,
	id uuid.UUID,
) error {
	err := runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		ft, err := fantasyteam.LoadByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if ft.OwnerID != ownerID {
			return ErrNotOwner
		}
		_, err = fantasyteam.DeleteByID(ctx, tx, id)
		return err
	})
	if isForeignKeyViolation(err) {
		return ErrStillReferenced
	}
	return err
}

func (s *FantasyTeamService) Get(ctx context.Context, id uuid.UUID) (
	*model.FantasyTeam, error,
) {
	ret, err := fantasyteam.LoadByID(ctx, s.pool, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ret, nil
}

func (s *FantasyTeamService) ListByOwner(ctx context.Context, ownerID string) (
	[]*model.FantasyTeam, error,
) {
	return fantasyteam.LoadByOwner(ctx, s.pool, ownerID)
}

// CurrentPoints derives the team's points from the ledger at call time.
func (s *FantasyTeamService) CurrentPoints(ctx context.Context, id uuid.UUID) (
	int64, error,
) {
	pts, err := fantasyteam.CurrentPoints(ctx, s.pool, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return pts, nil
}
