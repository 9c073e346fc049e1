//nolint:funlen,errcheck // ok for tests
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/gridfantasy/fantasy-league-manager-go/pkg/model"
	"github.com/gridfantasy/fantasy-league-manager-go/testsupport/basedata"
)

func TestFantasyTeamService_Save(t *testing.T) {
	pool := initTestDb()
	catalog := basedata.CreateSampleCatalog(pool)
	srv := NewFantasyTeamService(pool)
	ctx := context.Background()

	driverIDs := []uuid.UUID{catalog.Drivers[0].ID, catalog.Drivers[1].ID}
	ft, err := srv.Save(ctx, "user1", "Dream Team", catalog.Teams[0].ID, driverIDs)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, ft.ID)
	// 30M team + 18M + 15M drivers
	assert.Equal(t, int64(63_000_000), ft.Price)
	assert.Equal(t, driverIDs, ft.DriverIDs)

	got, err := srv.Get(ctx, ft.ID)
	assert.NoError(t, err)
	assert.Equal(t, ft, got)

	owned, err := srv.ListByOwner(ctx, "user1")
	assert.NoError(t, err)
	assert.Len(t, owned, 1)
}

func TestFantasyTeamService_BudgetBoundary(t *testing.T) {
	pool := initTestDb()
	catalogSrv := NewCatalogService(pool)
	srv := NewFantasyTeamService(pool)
	ctx := context.Background()

	team, err := catalogSrv.CreateTeam(ctx, "Budget Team", 40_000_000)
	assert.NoError(t, err)

	driverIDs := make([]uuid.UUID, 0, model.MaxFantasyDrivers)
	for i := 0; i < model.MaxFantasyDrivers; i++ {
		d, err := catalogSrv.CreateDriver(ctx, "Filler", 12_000_000)
		assert.NoError(t, err)
		driverIDs = append(driverIDs, d.ID)
	}

	// 40M + 5 * 12M spends exactly the cap, which is allowed
	ft, err := srv.Save(ctx, "user1", "At The Limit", team.ID, driverIDs)
	assert.NoError(t, err)
	assert.Equal(t, model.BudgetCap, ft.Price)

	// one unit over the cap is rejected with the computed total
	pricier, err := catalogSrv.CreateDriver(ctx, "Pricier", 12_000_001)
	assert.NoError(t, err)
	over := append(append([]uuid.UUID{}, driverIDs[:4]...), pricier.ID)

	var budgetErr *BudgetExceededError
	_, err = srv.Save(ctx, "user1", "Over The Limit", team.ID, over)
	assert.ErrorAs(t, err, &budgetErr)
	assert.Equal(t, model.BudgetCap+1, budgetErr.Price)
	assert.Equal(t, model.BudgetCap, budgetErr.Cap)

	// the rejected team was not persisted
	owned, err := srv.ListByOwner(ctx, "user1")
	assert.NoError(t, err)
	assert.Len(t, owned, 1)
}

func TestFantasyTeamService_SaveValidation(t *testing.T) {
	pool := initTestDb()
	catalog := basedata.CreateSampleCatalog(pool)
	srv := NewFantasyTeamService(pool)
	ctx := context.Background()

	team1 := catalog.Teams[0]
	ids := func(idx ...int) []uuid.UUID {
		ret := make([]uuid.UUID, len(idx))
		for i, j := range idx {
			ret[i] = catalog.Drivers[j].ID
		}
		return ret
	}

	type args struct {
		owner     string
		name      string
		teamID    uuid.UUID
		driverIDs []uuid.UUID
	}
	tests := []struct {
		name string
		args args
	}{
		{
			name: "missing_owner",
			args: args{owner: "", name: "x", teamID: team1.ID, driverIDs: ids(0)},
		},
		{
			name: "missing_name",
			args: args{owner: "user1", name: "", teamID: team1.ID, driverIDs: ids(0)},
		},
		{
			name: "too_many_drivers",
			args: args{owner: "user1", name: "x", teamID: team1.ID,
				driverIDs: ids(0, 1, 2, 3, 4, 5)},
		},
		{
			name: "duplicate_driver",
			args: args{owner: "user1", name: "x", teamID: team1.ID,
				driverIDs: ids(0, 0)},
		},
		{
			name: "unknown_team",
			args: args{owner: "user1", name: "x", teamID: uuid.New(),
				driverIDs: ids(0)},
		},
		{
			name: "unknown_driver",
			args: args{owner: "user1", name: "x", teamID: team1.ID,
				driverIDs: []uuid.UUID{uuid.New()}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.Save(context.Background(), tt.args.owner, tt.args.name,
				tt.args.teamID, tt.args.driverIDs)
			assert.Error(t, err)
		})
	}

	owned, err := srv.ListByOwner(ctx, "user1")
	assert.NoError(t, err)
	assert.Empty(t, owned)
}

func TestFantasyTeamService_Delete(t *testing.T) {
	pool := initTestDb()
	catalog := basedata.CreateSampleCatalog(pool)
	srv := NewFantasyTeamService(pool)
	ctx := context.Background()

	ft, err := srv.Save(ctx, "user1", "Dream Team", catalog.Teams[0].ID,
		[]uuid.UUID{catalog.Drivers[0].ID})
	assert.NoError(t, err)

	assert.ErrorIs(t, srv.Delete(ctx, "somebody-else", ft.ID), ErrNotOwner)
	assert.NoError(t, srv.Delete(ctx, "user1", ft.ID))
	assert.ErrorIs(t, srv.Delete(ctx, "user1", ft.ID), ErrNotFound)
}
