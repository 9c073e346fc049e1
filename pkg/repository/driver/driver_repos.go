//nolint:whitespace // can't make both editor and linter happy
package driver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/gridfantasy/fantasy-league-manager-go/pkg/model"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository"
)

var selector = `select d.id, d.name, d.price, d.points, d.team_id from driver d`

func Create(ctx context.Context, conn repository.Querier, driver *model.Driver) (
	*model.Driver, error,
) {
	if driver.ID == uuid.Nil {
		driver.ID = uuid.New()
	}
	_, err := conn.Exec(ctx, `
	insert into driver (id, name, price, points, team_id)
	values ($1,$2,$3,$4,$5)
	`,
		driver.ID, driver.Name, driver.Price, driver.Points, driver.TeamID,
	)
	if err != nil {
		return nil, err
	}
	return LoadByID(ctx, conn, driver.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	*model.Driver, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where d.id=$1", selector), id)
	return readData(row)
}

// LoadByIDs returns the drivers matching ids. Missing ids are silently
// absent from the result; callers detect them by comparing lengths.
func LoadByIDs(ctx context.Context, conn repository.Querier, ids []uuid.UUID) (
	[]*model.Driver, error,
) {
	arg := lo.Map(ids, func(id uuid.UUID, _ int) string { return id.String() })
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where d.id = any($1::uuid[])", selector), arg)
	if err != nil {
		return nil, err
	}
	return readRows(rows)
}

func LoadAll(ctx context.Context, conn repository.Querier) (
	[]*model.Driver, error,
) {
	rows, err := conn.Query(ctx, fmt.Sprintf("%s order by d.name asc", selector))
	if err != nil {
		return nil, err
	}
	return readRows(rows)
}

func LoadByTeamID(ctx context.Context, conn repository.Querier, teamID uuid.UUID) (
	[]*model.Driver, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where d.team_id=$1 order by d.name asc", selector), teamID)
	if err != nil {
		return nil, err
	}
	return readRows(rows)
}

// LoadSelectable returns the pool an admin may pick for a team's roster:
// free agents plus the team's own drivers.
func LoadSelectable(ctx context.Context, conn repository.Querier, teamID uuid.UUID) (
	[]*model.Driver, error,
) {
	rows, err := conn.Query(ctx, fmt.Sprintf(
		"%s where d.team_id is null or d.team_id=$1 order by d.name asc", selector),
		teamID)
	if err != nil {
		return nil, err
	}
	return readRows(rows)
}

func Update(ctx context.Context, conn repository.Querier, driver *model.Driver) (
	*model.Driver, error,
) {
	cmdTag, err := conn.Exec(ctx, `
	update driver set name=$1, price=$2 where id=$3
	`, driver.Name, driver.Price, driver.ID)
	if err != nil {
		return nil, err
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, repository.ErrNoData
	}
	return LoadByID(ctx, conn, driver.ID)
}

// ClearTeam releases all drivers contracted to teamID,
// returns number of rows updated.
func ClearTeam(ctx context.Context, conn repository.Querier, teamID uuid.UUID) (
	int, error,
) {
	cmdTag, err := conn.Exec(ctx,
		"update driver set team_id=null where team_id=$1", teamID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// AssignTeam contracts the given drivers to teamID,
// returns number of rows updated.
func AssignTeam(
	ctx context.Context,
	conn repository.Querier,
	teamID uuid.UUID,
	driverIDs []uuid.UUID,
) (int, error) {
	arg := lo.Map(driverIDs, func(id uuid.UUID, _ int) string { return id.String() })
	cmdTag, err := conn.Exec(ctx,
		"update driver set team_id=$1 where id = any($2::uuid[])", teamID, arg)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// RecomputePoints resets every driver's points to the sum over the race
// result ledger. Aggregates are never patched incrementally, so corrective
// race edits cannot double count.
func RecomputePoints(ctx context.Context, conn repository.Querier) (int, error) {
	cmdTag, err := conn.Exec(ctx, `
	update driver d set points = coalesce(
		(select sum(r.points) from race_result r where r.driver_id = d.id), 0)
	`)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	int, error,
) {
	cmdTag, err := conn.Exec(ctx, "delete from driver where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.Driver, error) {
	var item model.Driver
	if err := row.Scan(
		&item.ID, &item.Name, &item.Price, &item.Points, &item.TeamID,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func readRows(rows pgx.Rows) ([]*model.Driver, error) {
	ret := make([]*model.Driver, 0)
	defer rows.Close()
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}
