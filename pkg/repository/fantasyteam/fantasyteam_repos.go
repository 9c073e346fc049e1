//nolint:whitespace // can't make both editor and linter happy
package fantasyteam

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gridfantasy/fantasy-league-manager-go/pkg/model"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository"
)

var selector = `select ft.id, ft.owner_id, ft.name, ft.team_id, ft.price
	from fantasy_team ft`

// Create persists the fantasy team and its driver picks in slot order.
func Create(ctx context.Context, conn repository.Querier, ft *model.FantasyTeam) (
	*model.FantasyTeam, error,
) {
	if ft.ID == uuid.Nil {
		ft.ID = uuid.New()
	}
	_, err := conn.Exec(ctx, `
	insert into fantasy_team (id, owner_id, name, team_id, price)
	values ($1,$2,$3,$4,$5)
	`,
		ft.ID, ft.OwnerID, ft.Name, ft.TeamID, ft.Price,
	)
	if err != nil {
		return nil, err
	}
	for slot, driverID := range ft.DriverIDs {
		if _, err := conn.Exec(ctx, `
		insert into fantasy_team_driver (fantasy_team_id, driver_id, slot)
		values ($1,$2,$3)
		`,
			ft.ID, driverID, slot,
		); err != nil {
			return nil, err
		}
	}
	return LoadByID(ctx, conn, ft.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	*model.FantasyTeam, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where ft.id=$1", selector), id)
	item, err := readData(row)
	if err != nil {
		return nil, err
	}
	if item.DriverIDs, err = loadDriverIDs(ctx, conn, id); err != nil {
		return nil, err
	}
	return item, nil
}

func LoadByOwner(ctx context.Context, conn repository.Querier, ownerID string) (
	[]*model.FantasyTeam, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where ft.owner_id=$1 order by ft.name asc", selector),
		ownerID)
	if err != nil {
		return nil, err
	}
	ret := make([]*model.FantasyTeam, 0)
	defer rows.Close()
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, item := range ret {
		if item.DriverIDs, err = loadDriverIDs(ctx, conn, item.ID); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// CurrentPoints derives the fantasy team's aggregate points at query time:
// picked drivers' points plus the picked team's score, all rooted in the
// race result ledger. Nothing is cached.
func CurrentPoints(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	int64, error,
) {
	row := conn.QueryRow(ctx, `
	select coalesce((
		select sum(d.points)
		from fantasy_team_driver ftd
		join driver d on d.id = ftd.driver_id
		where ftd.fantasy_team_id = ft.id), 0)
	+ coalesce((select t.score from team t where t.id = ft.team_id), 0)
	from fantasy_team ft where ft.id=$1
	`, id)
	var points int64
	if err := row.Scan(&points); err != nil {
		return 0, err
	}
	return points, nil
}

// deletes an entry from the database, returns number of rows deleted.
// Driver picks cascade; a league membership still pointing at the team
// makes the delete fail with a foreign key violation.
func DeleteByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	int, error,
) {
	cmdTag, err := conn.Exec(ctx, "delete from fantasy_team where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func loadDriverIDs(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	[]uuid.UUID, error,
) {
	rows, err := conn.Query(ctx, `
	select ftd.driver_id from fantasy_team_driver ftd
	where ftd.fantasy_team_id=$1 order by ftd.slot asc
	`, id)
	if err != nil {
		return nil, err
	}
	ret := make([]uuid.UUID, 0)
	defer rows.Close()
	for rows.Next() {
		var driverID uuid.UUID
		if err := rows.Scan(&driverID); err != nil {
			return nil, err
		}
		ret = append(ret, driverID)
	}
	return ret, rows.Err()
}

func readData(row pgx.Row) (*model.FantasyTeam, error) {
	var item model.FantasyTeam
	if err := row.Scan(
		&item.ID, &item.OwnerID, &item.Name, &item.TeamID, &item.Price,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
