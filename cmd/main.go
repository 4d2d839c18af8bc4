package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"busboard.dev/busboard"
	"busboard.dev/busboard/config"
	"busboard.dev/busboard/storage"
)

var rootCmd = &cobra.Command{
	Use:          "busboard",
	Short:        "Commute shuttle departure board",
	Long:         "Shows upcoming departures for the Palo Alto commute shuttle",
	SilenceUsage: true,
}

var (
	configPath   string
	schedulePath string
	storageName  string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&schedulePath, "schedule", "s", "", "Path to schedule CSV (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&storageName, "storage", "", "", "Storage backend: memory, sqlite or postgres (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}
	if schedulePath != "" {
		cfg.Schedule.Path = schedulePath
	}
	if storageName != "" {
		cfg.Schedule.Storage = storageName
	}
	return cfg, nil
}

func buildStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Schedule.Storage {
	case "", "memory":
		return storage.NewMemoryStorage(), nil
	case "sqlite":
		return storage.NewSQLiteStorage(storage.SQLiteConfig{
			OnDisk:    cfg.Schedule.Directory != "",
			Directory: cfg.Schedule.Directory,
		})
	case "postgres":
		pg := cfg.Schedule.Postgres
		return storage.NewPSQLStorage(storage.PSQLConfig{
			Host:     pg.Host,
			Port:     pg.Port,
			User:     pg.User,
			Password: pg.Password,
			DBName:   pg.DBName,
		})
	}
	return nil, fmt.Errorf("unknown storage backend: %s", cfg.Schedule.Storage)
}

func loadSchedule(cfg *config.Config) (*busboard.Schedule, error) {
	s, err := buildStorage(cfg)
	if err != nil {
		return nil, err
	}

	manager := busboard.NewManager(s)
	schedule, err := manager.Load(cfg.Schedule.Path)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	return schedule, nil
}
