//nolint:whitespace // can't make both editor and linter happy
package race

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gridfantasy/fantasy-league-manager-go/pkg/model"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository"
)

var selector = `select r.id, r.name, r.race_date from race r`

// Upsert creates the race or, when it already exists, updates name and date.
// Submitting and correcting a race result go through the same path.
func Upsert(ctx context.Context, conn repository.Querier, race *model.Race) (
	*model.Race, error,
) {
	if race.ID == uuid.Nil {
		race.ID = uuid.New()
	}
	_, err := conn.Exec(ctx, `
	insert into race (id, name, race_date) values ($1,$2,$3)
	on conflict (id) do update set name=excluded.name, race_date=excluded.race_date
	`,
		race.ID, race.Name, race.Date,
	)
	if err != nil {
		return nil, err
	}
	return LoadByID(ctx, conn, race.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	*model.Race, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where r.id=$1", selector), id)
	return readData(row)
}

func LoadAll(ctx context.Context, conn repository.Querier) ([]*model.Race, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s order by r.race_date asc, r.name asc", selector))
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Race, 0)
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

// ReplaceResults swaps the race's ledger entries for the given ones.
// The previous mapping is discarded entirely so a re-scored race never
// accumulates into stale rows.
func ReplaceResults(
	ctx context.Context,
	conn repository.Querier,
	raceID uuid.UUID,
	results []*model.RaceResult,
) error {
	if _, err := conn.Exec(ctx,
		"delete from race_result where race_id=$1", raceID); err != nil {
		return err
	}
	for _, res := range results {
		if _, err := conn.Exec(ctx, `
		insert into race_result (race_id, driver_id, position, points)
		values ($1,$2,$3,$4)
		`,
			raceID, res.DriverID, res.Position, res.Points,
		); err != nil {
			return err
		}
	}
	return nil
}

func LoadResults(ctx context.Context, conn repository.Querier, raceID uuid.UUID) (
	[]*model.RaceResult, error,
) {
	rows, err := conn.Query(ctx, `
	select rr.race_id, rr.driver_id, rr.position, rr.points
	from race_result rr where rr.race_id=$1 order by rr.position asc
	`, raceID)
	if err != nil {
		return nil, err
	}
	ret := make([]*model.RaceResult, 0)
	defer rows.Close()
	for rows.Next() {
		var item model.RaceResult
		if err := rows.Scan(
			&item.RaceID, &item.DriverID, &item.Position, &item.Points,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

// deletes an entry from the database, returns number of rows deleted.
// Ledger entries go with it (cascade).
func DeleteByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	int, error,
) {
	cmdTag, err := conn.Exec(ctx, "delete from race where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.Race, error) {
	var item model.Race
	if err := row.Scan(&item.ID, &item.Name, &item.Date); err != nil {
		return nil, err
	}
	return &item, nil
}
