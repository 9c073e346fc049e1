//nolint:errcheck //ok for this test code
package race

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/gridfantasy/fantasy-league-manager-go/pkg/model"
	driverrepos "github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/driver"
	tcpg "github.com/gridfantasy/fantasy-league-manager-go/testsupport/tcpostgres"
)

func initTestDb() *pgxpool.Pool {
	pool := tcpg.SetupTestDb()
	tcpg.ClearAllTables(pool)
	return pool
}

func sampleDate() time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

func createSampleEntry(db *pgxpool.Pool) *model.Race {
	race, err := Upsert(context.Background(), db,
		&model.Race{Name: "Season Opener", Date: sampleDate()})
	if err != nil {
		log.Fatalf("createSampleEntry: %v\n", err)
	}
	return race
}

func createSampleDriver(db *pgxpool.Pool, name string) *model.Driver {
	driver, err := driverrepos.Create(context.Background(), db,
		&model.Driver{Name: name, Price: 5_000_000})
	if err != nil {
		log.Fatalf("createSampleDriver: %v\n", err)
	}
	return driver
}

func TestRaceRepository_Upsert(t *testing.T) {
	db := initTestDb()

	created, err := Upsert(context.Background(), db,
		&model.Race{Name: "Test GP", Date: sampleDate()})
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	// same id updates in place
	updated, err := Upsert(context.Background(), db,
		&model.Race{ID: created.ID, Name: "Renamed GP", Date: sampleDate()})
	assert.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Renamed GP", updated.Name)

	all, err := LoadAll(context.Background(), db)
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRaceRepository_ReplaceResults(t *testing.T) {
	db := initTestDb()
	race := createSampleEntry(db)
	d1 := createSampleDriver(db, "Driver One")
	d2 := createSampleDriver(db, "Driver Two")

	err := ReplaceResults(context.Background(), db, race.ID,
		[]*model.RaceResult{
			{RaceID: race.ID, DriverID: d1.ID, Position: 1, Points: 25},
			{RaceID: race.ID, DriverID: d2.ID, Position: 2, Points: 18},
		})
	assert.NoError(t, err)

	results, err := LoadResults(context.Background(), db, race.ID)
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, d1.ID, results[0].DriverID)
	assert.Equal(t, 25, results[0].Points)

	// replacing discards the previous mapping entirely
	err = ReplaceResults(context.Background(), db, race.ID,
		[]*model.RaceResult{
			{RaceID: race.ID, DriverID: d2.ID, Position: 1, Points: 25},
		})
	assert.NoError(t, err)

	results, err = LoadResults(context.Background(), db, race.ID)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, d2.ID, results[0].DriverID)
}

func TestRaceRepository_DeleteByID(t *testing.T) {
	db := initTestDb()
	race := createSampleEntry(db)
	d1 := createSampleDriver(db, "Driver One")

	err := ReplaceResults(context.Background(), db, race.ID,
		[]*model.RaceResult{
			{RaceID: race.ID, DriverID: d1.ID, Position: 1, Points: 25},
		})
	assert.NoError(t, err)

	num, err := DeleteByID(context.Background(), db, race.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, num)

	// ledger entries cascade
	results, err := LoadResults(context.Background(), db, race.ID)
	assert.NoError(t, err)
	assert.Empty(t, results)

	num, err = DeleteByID(context.Background(), db, race.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, num)
}
