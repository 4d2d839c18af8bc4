package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Prints the full departure board",
	Args:  cobra.NoArgs,
	RunE:  board,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func board(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	schedule, err := loadSchedule(cfg)
	if err != nil {
		return err
	}

	sections, err := schedule.Board(cfg.Board.Outbound, cfg.Board.Inbound, time.Now(), cfg.Board.Limit)
	if err != nil {
		return err
	}

	for i, section := range sections {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("== %s ==\n", section.Title)

		if len(section.Departures) == 0 {
			fmt.Println(section.Empty)
			continue
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "Route\tDeparture Time\tTime Left")
		for _, d := range section.Departures {
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.Route, d.Time, d.TimeLeft)
		}
		w.Flush()

		if section.Warning != "" {
			fmt.Println(section.Warning)
		}
	}

	return nil
}
