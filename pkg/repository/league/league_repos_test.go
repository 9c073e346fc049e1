//nolint:errcheck,funlen //ok for this test code
package league

import (
	"context"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/gridfantasy/fantasy-league-manager-go/pkg/model"
	ftrepos "github.com/gridfantasy/fantasy-league-manager-go/pkg/repository/fantasyteam"
	"github.com/gridfantasy/fantasy-league-manager-go/testsupport/basedata"
	tcpg "github.com/gridfantasy/fantasy-league-manager-go/testsupport/tcpostgres"
)

func initTestDb() *pgxpool.Pool {
	pool := tcpg.SetupTestDb()
	tcpg.ClearAllTables(pool)
	return pool
}

func createSampleEntry(db *pgxpool.Pool) *model.League {
	league, err := Create(context.Background(), db,
		&model.League{Name: "Open League", Type: model.LeaguePublic})
	if err != nil {
		log.Fatalf("createSampleEntry: %v\n", err)
	}
	return league
}

func createSampleFantasyTeam(
	db *pgxpool.Pool, catalog *basedata.Catalog, owner string,
) *model.FantasyTeam {
	ft, err := ftrepos.Create(context.Background(), db, &model.FantasyTeam{
		OwnerID:   owner,
		Name:      owner + "'s team",
		TeamID:    catalog.Teams[0].ID,
		DriverIDs: []uuid.UUID{catalog.Drivers[0].ID},
		Price:     48_000_000,
	})
	if err != nil {
		log.Fatalf("createSampleFantasyTeam: %v\n", err)
	}
	return ft
}

func TestLeagueRepository_Create(t *testing.T) {
	db := initTestDb()

	type args struct {
		league *model.League
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name: "public_without_code",
			args: args{league: &model.League{
				Name: "Public League", Type: model.LeaguePublic,
			}},
		},
		{
			name: "private_with_code",
			args: args{league: &model.League{
				Name: "Private League", Type: model.LeaguePrivate, Code: "ABC234",
			}},
		},
		{
			// schema check: private requires a code
			name: "private_without_code",
			args: args{league: &model.League{
				Name: "Broken League", Type: model.LeaguePrivate,
			}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Create(context.Background(), db, tt.args.league)
			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				assert.Equal(t, tt.args.league.Code, got.Code)
			}
		})
	}
}

func TestLeagueRepository_LoadByCode(t *testing.T) {
	db := initTestDb()
	private, err := Create(context.Background(), db,
		&model.League{Name: "Hidden", Type: model.LeaguePrivate, Code: "XYZ789"})
	assert.NoError(t, err)

	got, err := LoadByCode(context.Background(), db, "XYZ789")
	assert.NoError(t, err)
	assert.Equal(t, private.ID, got.ID)

	_, err = LoadByCode(context.Background(), db, "NOPE42")
	assert.Error(t, err)

	exists, err := CodeExists(context.Background(), db, "XYZ789")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = CodeExists(context.Background(), db, "NOPE42")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestLeagueRepository_Members(t *testing.T) {
	db := initTestDb()
	catalog := basedata.CreateSampleCatalog(db)
	league := createSampleEntry(db)
	ft1 := createSampleFantasyTeam(db, catalog, "user1")
	ft2 := createSampleFantasyTeam(db, catalog, "user2")

	for _, m := range []*model.LeagueMember{
		{LeagueID: league.ID, UserID: "user1", FantasyTeamID: ft1.ID,
			JoinedAt: basedata.TestTime()},
		{LeagueID: league.ID, UserID: "user2", FantasyTeamID: ft2.ID,
			JoinedAt: basedata.TestTime()},
	} {
		assert.NoError(t, AddMember(context.Background(), db, m))
	}

	// duplicate membership violates the primary key
	err := AddMember(context.Background(), db, &model.LeagueMember{
		LeagueID: league.ID, UserID: "user1", FantasyTeamID: ft1.ID,
		JoinedAt: basedata.TestTime(),
	})
	assert.Error(t, err)

	members, err := LoadMembers(context.Background(), db, league.ID)
	assert.NoError(t, err)
	assert.Len(t, members, 2)
	// join order
	assert.Equal(t, "user1", members[0].UserID)
	assert.Equal(t, "user2", members[1].UserID)
	assert.Less(t, members[0].Seq, members[1].Seq)

	member, err := LoadMember(context.Background(), db, league.ID, "user1")
	assert.NoError(t, err)
	assert.Equal(t, ft1.ID, member.FantasyTeamID)

	num, err := UpdateMemberTeam(context.Background(), db, league.ID, "user1", ft2.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, num)

	joined, err := LoadJoinedByUser(context.Background(), db, "user1")
	assert.NoError(t, err)
	assert.Len(t, joined, 1)
	assert.Equal(t, league.ID, joined[0].ID)
}

func TestLeagueRepository_DeleteByID(t *testing.T) {
	db := initTestDb()
	catalog := basedata.CreateSampleCatalog(db)
	league := createSampleEntry(db)
	ft := createSampleFantasyTeam(db, catalog, "user1")

	err := AddMember(context.Background(), db, &model.LeagueMember{
		LeagueID: league.ID, UserID: "user1", FantasyTeamID: ft.ID,
		JoinedAt: basedata.TestTime(),
	})
	assert.NoError(t, err)

	// memberships cascade
	num, err := DeleteByID(context.Background(), db, league.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, num)

	members, err := LoadMembers(context.Background(), db, league.ID)
	assert.NoError(t, err)
	assert.Empty(t, members)
}
