//nolint:funlen,errcheck // ok for tests
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	driverrepos "github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/driver"
	teamrepos "github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/team"
	"github.com/gridfantasy/fantasy-league-manager-go/testsupport/basedata"
)

func TestRaceService_SubmitResults(t *testing.T) {
	pool := initTestDb()
	catalog := basedata.CreateSampleCatalog(pool)
	srv := NewRaceService(pool)
	ctx := context.Background()

	d1 := catalog.Drivers[0]
	d2 := catalog.Drivers[1]
	d3 := catalog.Drivers[2]

	race, err := srv.SubmitResults(ctx, uuid.Nil, "R1", basedata.TestTime(),
		[]string{d1.ID.String(), d2.ID.String(), d3.ID.String()})
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, race.ID)

	points := func(id uuid.UUID) int64 {
		d, err := driverrepos.LoadByID(ctx, pool, id)
		assert.NoError(t, err)
		return d.Points
	}
	assert.Equal(t, int64(25), points(d1.ID))
	assert.Equal(t, int64(18), points(d2.ID))
	assert.Equal(t, int64(15), points(d3.ID))

	results, err := srv.Results(ctx, race.ID)
	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Position)
	assert.Equal(t, 25, results[0].Points)
}

func TestRaceService_RescoreReplaces(t *testing.T) {
	pool := initTestDb()
	catalog := basedata.CreateSampleCatalog(pool)
	srv := NewRaceService(pool)
	ctx := context.Background()

	d1 := catalog.Drivers[0]
	d2 := catalog.Drivers[1]
	d3 := catalog.Drivers[2]

	race, err := srv.SubmitResults(ctx, uuid.Nil, "R1", basedata.TestTime(),
		[]string{d1.ID.String(), d2.ID.String(), d3.ID.String()})
	assert.NoError(t, err)

	// stewards swap first and second; third is disqualified
	_, err = srv.SubmitResults(ctx, race.ID, "R1", basedata.TestTime(),
		[]string{d2.ID.String(), d1.ID.String()})
	assert.NoError(t, err)

	points := func(id uuid.UUID) int64 {
		d, err := driverrepos.LoadByID(ctx, pool, id)
		assert.NoError(t, err)
		return d.Points
	}
	// corrected, not accumulated
	assert.Equal(t, int64(18), points(d1.ID))
	assert.Equal(t, int64(25), points(d2.ID))
	assert.Equal(t, int64(0), points(d3.ID))

	races, err := srv.ListRaces(ctx)
	assert.NoError(t, err)
	assert.Len(t, races, 1)
}

func TestRaceService_GapKeepsSlotValue(t *testing.T) {
	pool := initTestDb()
	catalog := basedata.CreateSampleCatalog(pool)
	srv := NewRaceService(pool)
	ctx := context.Background()

	d1 := catalog.Drivers[0]
	d2 := catalog.Drivers[1]

	// rank 2 unfilled: rank 3 still pays 15, not 18
	_, err := srv.SubmitResults(ctx, uuid.Nil, "R1", basedata.TestTime(),
		[]string{d1.ID.String(), "", d2.ID.String()})
	assert.NoError(t, err)

	d, err := driverrepos.LoadByID(ctx, pool, d2.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(15), d.Points)
}

func TestRaceService_SubmitValidation(t *testing.T) {
	pool := initTestDb()
	catalog := basedata.CreateSampleCatalog(pool)
	srv := NewRaceService(pool)
	ctx := context.Background()

	d1 := catalog.Drivers[0]

	// unknown driver id
	var driverErr *UnknownDriverError
	_, err := srv.SubmitResults(ctx, uuid.Nil, "R1", basedata.TestTime(),
		[]string{uuid.New().String()})
	assert.ErrorAs(t, err, &driverErr)

	// unparseable driver id
	_, err = srv.SubmitResults(ctx, uuid.Nil, "R1", basedata.TestTime(),
		[]string{"not-a-uuid"})
	assert.ErrorAs(t, err, &driverErr)

	// duplicate driver in the order
	_, err = srv.SubmitResults(ctx, uuid.Nil, "R1", basedata.TestTime(),
		[]string{d1.ID.String(), d1.ID.String()})
	assert.Error(t, err)

	// nothing was persisted
	races, err := srv.ListRaces(ctx)
	assert.NoError(t, err)
	assert.Empty(t, races)
}

func TestRaceService_TeamScores(t *testing.T) {
	pool := initTestDb()
	catalog := basedata.CreateSampleCatalog(pool)
	catalogSrv := NewCatalogService(pool)
	raceSrv := NewRaceService(pool)
	ctx := context.Background()

	team1 := catalog.Teams[0]
	d1 := catalog.Drivers[0]
	d2 := catalog.Drivers[1]
	d3 := catalog.Drivers[2]

	_, err := catalogSrv.SaveTeamRoster(ctx, team1.ID,
		[]uuid.UUID{d1.ID, d2.ID})
	assert.NoError(t, err)

	_, err = raceSrv.SubmitResults(ctx, uuid.Nil, "R1", basedata.TestTime(),
		[]string{d1.ID.String(), d2.ID.String(), d3.ID.String()})
	assert.NoError(t, err)

	// only contracted drivers count towards the team score
	got, err := teamrepos.LoadByID(ctx, pool, team1.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(43), got.Score)
}

func TestRaceService_DeleteRace(t *testing.T) {
	pool := initTestDb()
	catalog := basedata.CreateSampleCatalog(pool)
	srv := NewRaceService(pool)
	ctx := context.Background()

	d1 := catalog.Drivers[0]
	race, err := srv.SubmitResults(ctx, uuid.Nil, "R1", basedata.TestTime(),
		[]string{d1.ID.String()})
	assert.NoError(t, err)

	assert.NoError(t, srv.DeleteRace(ctx, race.ID))

	// aggregates re-derived without the race
	d, err := driverrepos.LoadByID(ctx, pool, d1.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), d.Points)

	assert.ErrorIs(t, srv.DeleteRace(ctx, race.ID), ErrNotFound)
}
