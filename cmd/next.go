package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"busboard.dev/busboard"
)

var nextCmd = &cobra.Command{
	Use:   "next <route>",
	Short: "Lists upcoming departures for a route",
	Args:  cobra.ExactArgs(1),
	RunE:  next,
}

var limit int

func init() {
	nextCmd.Flags().IntVarP(&limit, "limit", "l", busboard.DefaultLimit, "Limit the number of departures returned")
	rootCmd.AddCommand(nextCmd)
}

func next(cmd *cobra.Command, args []string) error {
	route := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	schedule, err := loadSchedule(cfg)
	if err != nil {
		return err
	}

	departures, err := schedule.NextDepartures(route, time.Now(), limit)
	if err != nil {
		return err
	}

	if len(departures) == 0 {
		fmt.Println("No upcoming buses available.")
		return nil
	}

	for _, departure := range departures {
		fmt.Printf("%s %s %s\n", departure.Route, departure.Time, departure.TimeLeft)
	}

	return nil
}
