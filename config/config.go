package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Schedule ScheduleConfig `yaml:"schedule"`
	Board    BoardConfig    `yaml:"board"`
	Server   ServerConfig   `yaml:"server"`
}

type ScheduleConfig struct {
	// Path to the schedule CSV.
	Path string `yaml:"path" validate:"required"`

	// Backend holding parsed schedules.
	Storage string `yaml:"storage" validate:"required,oneof=memory sqlite postgres"`

	// Directory for the sqlite database file.
	Directory string `yaml:"directory"`

	Postgres PostgresConfig `yaml:"postgres"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type BoardConfig struct {
	// The two direction labels shown on the board. Queries match
	// these exactly against the schedule's Route column.
	Outbound string `yaml:"outbound" validate:"required"`
	Inbound  string `yaml:"inbound" validate:"required"`

	// Rows per next-departures section.
	Limit int `yaml:"limit" validate:"gt=0"`
}

type ServerConfig struct {
	Listen string `yaml:"listen" validate:"required"`
}

// Default returns the configuration used when no config file is
// given.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			Path:    "bus_schedule.csv",
			Storage: "memory",
		},
		Board: BoardConfig{
			Outbound: "Palo Alto → Work",
			Inbound:  "Work → Palo Alto",
			Limit:    4,
		},
		Server: ServerConfig{
			Listen: ":8080",
		},
	}
}

// Load reads and validates a config file. Missing fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
