package standings

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gridfantasy/fantasy-league-manager-go/pkg/config"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/db/postgres"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/service"
)

func NewStandingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings leagueId",
		Short: "prints the current standings of a league",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStandings(args[0])
		},
	}
}

func printStandings(arg string) error {
	leagueID, err := uuid.Parse(arg)
	if err != nil {
		return fmt.Errorf("invalid league id %q: %w", arg, err)
	}

	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()

	srv := service.NewLeagueService(pool)
	league, err := srv.Get(context.Background(), leagueID)
	if err != nil {
		return err
	}
	standings, err := srv.Standings(context.Background(), leagueID)
	if err != nil {
		return err
	}

	fmt.Printf("Standings for %s\n", league.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tUSER\tTEAM\tPOINTS")
	for i, s := range standings {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i+1, s.Username, s.TeamName, s.Points)
	}
	return w.Flush()
}
