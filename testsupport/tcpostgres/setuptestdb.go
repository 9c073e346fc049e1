//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gridfantasy/fantasy-league-manager-go/pkg/db/migrate"
	database "github.com/gridfantasy/fantasy-league-manager-go/pkg/db/postgres"
)

// create a pg connection pool for the fantasy league testdatabase
func SetupTestDb() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("fantasy-league-manager-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	if err = migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}

	return database.InitWithURL(dbURL)
}

// SetupExternalTestDb connects to the database referenced by TESTDB_URL.
// Used on CI where a postgres service is already provided.
func SetupExternalTestDb() *pgxpool.Pool {
	dbURL := os.Getenv("TESTDB_URL")
	if err := migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}
	return database.InitWithURL(dbURL)
}

func ClearLeagueTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from league_member")
	pool.Exec(context.Background(), "delete from league")
}

func ClearFantasyTeamTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from fantasy_team_driver")
	pool.Exec(context.Background(), "delete from fantasy_team")
}

func ClearRaceTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from race_result")
	pool.Exec(context.Background(), "delete from race")
}

func ClearDriverTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from driver")
}

func ClearTeamTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from team")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearLeagueTables(pool)
	ClearFantasyTeamTables(pool)
	ClearRaceTables(pool)
	ClearDriverTable(pool)
	ClearTeamTable(pool)
}
