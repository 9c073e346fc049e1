//nolint:whitespace // can't make both editor and linter happy
package league

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gridfantasy/fantasy-league-manager-go/pkg/model"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/repository"
)

var selector = `select l.id, l.name, l.league_type, l.team_restriction, l.code
	from league l`

func Create(ctx context.Context, conn repository.Querier, league *model.League) (
	*model.League, error,
) {
	if league.ID == uuid.Nil {
		league.ID = uuid.New()
	}
	var code *string
	if league.Code != "" {
		code = &league.Code
	}
	_, err := conn.Exec(ctx, `
	insert into league (id, name, league_type, team_restriction, code)
	values ($1,$2,$3,$4,$5)
	`,
		league.ID, league.Name, league.Type, league.TeamRestriction, code,
	)
	if err != nil {
		return nil, err
	}
	return LoadByID(ctx, conn, league.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	*model.League, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where l.id=$1", selector), id)
	return readData(row)
}

func LoadByCode(ctx context.Context, conn repository.Querier, code string) (
	*model.League, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where l.code=$1", selector), code)
	return readData(row)
}

func LoadPublic(ctx context.Context, conn repository.Querier) (
	[]*model.League, error,
) {
	rows, err := conn.Query(ctx, fmt.Sprintf(
		"%s where l.league_type='public' order by l.name asc", selector))
	if err != nil {
		return nil, err
	}
	return readRows(rows)
}

func LoadJoinedByUser(ctx context.Context, conn repository.Querier, userID string) (
	[]*model.League, error,
) {
	rows, err := conn.Query(ctx, fmt.Sprintf(`
	%s join league_member m on m.league_id = l.id
	where m.user_id=$1 order by m.member_seq asc
	`, selector), userID)
	if err != nil {
		return nil, err
	}
	return readRows(rows)
}

// CodeExists reports whether any league already uses the join code.
func CodeExists(ctx context.Context, conn repository.Querier, code string) (
	bool, error,
) {
	row := conn.QueryRow(ctx,
		"select exists(select 1 from league where code=$1)", code)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func AddMember(
	ctx context.Context,
	conn repository.Querier,
	member *model.LeagueMember,
) error {
	_, err := conn.Exec(ctx, `
	insert into league_member (league_id, user_id, fantasy_team_id, joined_at)
	values ($1,$2,$3,$4)
	`,
		member.LeagueID, member.UserID, member.FantasyTeamID, member.JoinedAt,
	)
	return err
}

func LoadMember(
	ctx context.Context,
	conn repository.Querier,
	leagueID uuid.UUID,
	userID string,
) (*model.LeagueMember, error) {
	row := conn.QueryRow(ctx, `
	select m.league_id, m.user_id, m.fantasy_team_id, m.joined_at, m.member_seq
	from league_member m where m.league_id=$1 and m.user_id=$2
	`, leagueID, userID)
	return readMember(row)
}

// LoadMembers returns the league's members in join order.
func LoadMembers(ctx context.Context, conn repository.Querier, leagueID uuid.UUID) (
	[]*model.LeagueMember, error,
) {
	rows, err := conn.Query(ctx, `
	select m.league_id, m.user_id, m.fantasy_team_id, m.joined_at, m.member_seq
	from league_member m where m.league_id=$1 order by m.member_seq asc
	`, leagueID)
	if err != nil {
		return nil, err
	}
	ret := make([]*model.LeagueMember, 0)
	defer rows.Close()
	for rows.Next() {
		item, err := readMember(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// UpdateMemberTeam repoints the member's fantasy team selection,
// returns number of rows updated.
func UpdateMemberTeam(
	ctx context.Context,
	conn repository.Querier,
	leagueID uuid.UUID,
	userID string,
	fantasyTeamID uuid.UUID,
) (int, error) {
	cmdTag, err := conn.Exec(ctx, `
	update league_member set fantasy_team_id=$1 where league_id=$2 and user_id=$3
	`, fantasyTeamID, leagueID, userID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// deletes an entry from the database, returns number of rows deleted.
// Memberships cascade.
func DeleteByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	int, error,
) {
	cmdTag, err := conn.Exec(ctx, "delete from league where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.League, error) {
	var item model.League
	var code *string
	if err := row.Scan(
		&item.ID, &item.Name, &item.Type, &item.TeamRestriction, &code,
	); err != nil {
		return nil, err
	}
	if code != nil {
		item.Code = *code
	}
	return &item, nil
}

func readRows(rows pgx.Rows) ([]*model.League, error) {
	ret := make([]*model.League, 0)
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

func readMember(row pgx.Row) (*model.LeagueMember, error) {
	var item model.LeagueMember
	if err := row.Scan(
		&item.LeagueID, &item.UserID, &item.FantasyTeamID,
		&item.JoinedAt, &item.Seq,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
