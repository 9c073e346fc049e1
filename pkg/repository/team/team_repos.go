//nolint:whitespace // can't make both editor and linter happy
package team

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gridfantasy/fantasy-league-manager-go/pkg/model"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository"
)

var selector = `select t.id, t.name, t.price, t.score from team t`

func Create(ctx context.Context, conn repository.Querier, team *model.Team) (
	*model.Team, error,
) {
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	_, err := conn.Exec(ctx, `
	insert into team (id, name, price, score) values ($1,$2,$3,$4)
	`,
		team.ID, team.Name, team.Price, team.Score,
	)
	if err != nil {
		return nil, err
	}
	return LoadByID(ctx, conn, team.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	*model.Team, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where t.id=$1", selector), id)
	return readData(row)
}

func LoadAll(ctx context.Context, conn repository.Querier) ([]*model.Team, error) {
	rows, err := conn.Query(ctx, fmt.Sprintf("%s order by t.name asc", selector))
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Team, 0)
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

func Update(ctx context.Context, conn repository.Querier, team *model.Team) (
	*model.Team, error,
) {
	cmdTag, err := conn.Exec(ctx, `
	update team set name=$1, price=$2 where id=$3
	`, team.Name, team.Price, team.ID)
	if err != nil {
		return nil, err
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, repository.ErrNoData
	}
	return LoadByID(ctx, conn, team.ID)
}

// RecomputeScores resets every team's score to the sum of the points of its
// currently contracted drivers. Must run after driver.RecomputePoints.
func RecomputeScores(ctx context.Context, conn repository.Querier) (int, error) {
	cmdTag, err := conn.Exec(ctx, `
	update team t set score = coalesce(
		(select sum(d.points) from driver d where d.team_id = t.id), 0)
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
	cmdTag, err := conn.Exec(ctx, "delete from team where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.Team, error) {
	var item model.Team
	if err := row.Scan(&item.ID, &item.Name, &item.Price, &item.Score); err != nil {
		return nil, err
	}
	return &item, nil
}
