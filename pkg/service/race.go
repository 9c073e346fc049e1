//nolint:whitespace // can't make both editor and linter happy
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridfantasy/fantasy-league-manager-go/log"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/model"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/points"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/driver"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/race"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/team"
)

// RaceService turns submitted finishing orders into ledger entries and
// keeps the driver/team aggregates consistent with the ledger.
type RaceService struct {
	pool   *pgxpool.Pool
	log    *log.Logger
	clock  clock.Clock
	tracer trace.Tracer
}

type RaceOption func(*RaceService)

func WithRaceClock(c clock.Clock) RaceOption {
	return func(s *RaceService) {
		s.clock = c
	}
}

func WithRaceTracer(tracer trace.Tracer) RaceOption {
	return func(s *RaceService) {
		s.tracer = tracer
	}
}

func NewRaceService(pool *pgxpool.Pool, opts ...RaceOption) *RaceService {
	ret := &RaceService{
		pool: pool,
		log:  log.Default().Named("service.race"),
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

// SubmitResults records a race's finishing order. raceID may be uuid.Nil for
// a new race; passing an existing id re-scores it. order[i] holds the driver
// finishing at rank i+1, empty entries mark unfilled ranks. The previous
// results mapping is replaced entirely and all driver/team aggregates are
// recomputed from the ledger, so corrections never double count.
func (s *RaceService) SubmitResults(
	ctx context.Context,
	raceID uuid.UUID,
	name string,
	date time.Time,
	order []string,
) (*model.Race, error) {
	ctx, span := s.tracer.Start(ctx, "race.submitResults")
	defer span.End()

	awards, err := points.ScoreOrder(order)
	if err != nil {
		return nil, err
	}
	driverIDs := make([]uuid.UUID, 0, len(awards))
	for driverID := range awards {
		id, err := uuid.Parse(driverID)
		if err != nil {
			return nil, &UnknownDriverError{DriverID: driverID}
		}
		driverIDs = append(driverIDs, id)
	}
	if date.IsZero() {
		date = s.clock.Now().UTC()
	}

	var ret *model.Race
	if err := runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		drivers, err := driver.LoadByIDs(ctx, tx, driverIDs)
		if err != nil {
			return err
		}
		if missing := missingID(driverIDs, drivers); missing != "" {
			return &UnknownDriverError{DriverID: missing}
		}

		ret, err = race.Upsert(ctx, tx,
			&model.Race{ID: raceID, Name: name, Date: date})
		if err != nil {
			return err
		}

		results := make([]*model.RaceResult, 0, len(awards))
		for i, driverID := range order {
			if i >= points.MaxScoredRanks {
				break
			}
			if driverID == "" {
				continue
			}
			results = append(results, &model.RaceResult{
				RaceID:   ret.ID,
				DriverID: uuid.MustParse(driverID),
				Position: i + 1,
				Points:   points.Table[i],
			})
		}
		if err := race.ReplaceResults(ctx, tx, ret.ID, results); err != nil {
			return err
		}
		return s.recomputeAggregates(ctx, tx)
	}); err != nil {
		return nil, err
	}
	s.log.Info("race results stored",
		log.String("race", ret.ID.String()),
		log.String("name", ret.Name),
		log.Int("finishers", len(awards)))
	return ret, nil
}

// DeleteRace drops the race and its ledger entries, then re-derives the
// aggregates without it.
func (s *RaceService) DeleteRace(ctx context.Context, id uuid.UUID) error {
	return runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		num, err := race.DeleteByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if num == 0 {
			return ErrNotFound
		}
		return s.recomputeAggregates(ctx, tx)
	})
}

func (s *RaceService) GetRace(ctx context.Context, id uuid.UUID) (
	*model.Race, error,
) {
	ret, err := race.LoadByID(ctx, s.pool, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ret, nil
}

func (s *RaceService) ListRaces(ctx context.Context) ([]*model.Race, error) {
	return race.LoadAll(ctx, s.pool)
}

func (s *RaceService) Results(ctx context.Context, raceID uuid.UUID) (
	[]*model.RaceResult, error,
) {
	return race.LoadResults(ctx, s.pool, raceID)
}

// full recomputation from source records, never incremental patching
func (s *RaceService) recomputeAggregates(ctx context.Context, tx pgx.Tx) error {
	num, err := driver.RecomputePoints(ctx, tx)
	if err != nil {
		return err
	}
	s.log.Debug("driver points recomputed", log.Int("num", num))
	num, err = team.RecomputeScores(ctx, tx)
	if err != nil {
		return err
	}
	s.log.Debug("team scores recomputed", log.Int("num", num))
	return nil
}
