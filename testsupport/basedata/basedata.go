//nolint:errcheck,gomnd // testsetup
package basedata

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridfantasy/fantasy-league-manager-go/pkg/model"
	driverrepos "github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/driver"
	teamrepos "github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/team"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2026-04-28T11:10:12Z")
	return t
}

// Catalog holds a small seeded grid used by repository and service tests.
// Teams and drivers are created in declaration order.
type Catalog struct {
	Teams   []*model.Team
	Drivers []*model.Driver
}

func sampleTeams() []*model.Team {
	return []*model.Team{
		{Name: "Rosso Corsa", Price: 30_000_000},
		{Name: "Silver Arrow", Price: 25_000_000},
	}
}

func sampleDrivers() []*model.Driver {
	return []*model.Driver{
		{Name: "Aleix Duval", Price: 18_000_000},
		{Name: "Marek Nowak", Price: 15_000_000},
		{Name: "Jules Arnoux", Price: 12_000_000},
		{Name: "Timo Berger", Price: 9_000_000},
		{Name: "Sam Whitford", Price: 6_000_000},
		{Name: "Iker Mendes", Price: 3_000_000},
	}
}

// CreateSampleCatalog seeds two teams and six unassigned drivers.
func CreateSampleCatalog(pool *pgxpool.Pool) *Catalog {
	ctx := context.Background()
	ret := &Catalog{}
	for _, t := range sampleTeams() {
		created, err := teamrepos.Create(ctx, pool, t)
		if err != nil {
			log.Fatalf("createSampleCatalog: %v\n", err)
		}
		ret.Teams = append(ret.Teams, created)
	}
	for _, d := range sampleDrivers() {
		created, err := driverrepos.Create(ctx, pool, d)
		if err != nil {
			log.Fatalf("createSampleCatalog: %v\n", err)
		}
		ret.Drivers = append(ret.Drivers, created)
	}
	return ret
}
