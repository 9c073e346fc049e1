package race

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gridfantasy/fantasy-league-manager-go/log"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/config"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/db/postgres"
	"github.com/gridfantasy/fantasy-league-manager-go/pkg/service"
)

var (
	raceID   string
	raceName string
	raceDate string
)

func NewRaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "race",
		Short: "manage races and their results",
	}
	cmd.AddCommand(newSubmitCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newDeleteCmd())
	return cmd
}

func newSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit driverId [driverId...]",
		Short: "submits a race finishing order (winner first)",
		Long: `Submits the finishing order of a race. Arguments are driver ids,
winner first. An empty argument ("") marks an unfilled rank. Re-submitting
with --id replaces the previous results of that race.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitResults(args)
		},
	}
	cmd.Flags().StringVar(&raceID, "id", "",
		"race id (omit to create a new race)")
	cmd.Flags().StringVar(&raceName, "name", "",
		"race name")
	cmd.Flags().StringVar(&raceDate, "date", "",
		"race date (RFC3339 or 2006-01-02, default now)")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "lists all recorded races",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRaces()
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete raceId",
		Short: "deletes a race and re-derives all aggregates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteRace(args[0])
		},
	}
}

func submitResults(order []string) error {
	id := uuid.Nil
	if raceID != "" {
		var err error
		if id, err = uuid.Parse(raceID); err != nil {
			return fmt.Errorf("invalid race id %q: %w", raceID, err)
		}
	}
	date, err := parseDate(raceDate)
	if err != nil {
		return err
	}

	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()

	srv := service.NewRaceService(pool)
	race, err := srv.SubmitResults(context.Background(), id, raceName, date, order)
	if err != nil {
		return err
	}
	log.Info("race results recorded",
		log.String("race", race.ID.String()),
		log.String("name", race.Name))
	fmt.Println(race.ID)
	return nil
}

func listRaces() error {
	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()

	srv := service.NewRaceService(pool)
	races, err := srv.ListRaces(context.Background())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tNAME")
	for _, r := range races {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Date.Format("2006-01-02"), r.Name)
	}
	return w.Flush()
}

func deleteRace(arg string) error {
	id, err := uuid.Parse(arg)
	if err != nil {
		return fmt.Errorf("invalid race id %q: %w", arg, err)
	}
	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()

	srv := service.NewRaceService(pool)
	return srv.DeleteRace(context.Background(), id)
}

func parseDate(arg string) (time.Time, error) {
	if arg == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ret, err := time.Parse(layout, arg); err == nil {
			return ret, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", arg)
}
