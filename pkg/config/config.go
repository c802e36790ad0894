package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/tkanos/gonfig"
)

// RequiredDice is the only dice count the Cee-lo rule table is defined for.
const RequiredDice = 3

const (
	BustPolicyForced = "forced"
	BustPolicyPush   = "push"

	AllInWinnerOut       = "out"
	AllInWinnerReinstate = "reinstate"
)

type GameConfig struct {
	NumDice         int    `json:"num_dice" env:"CEELO_NUM_DICE"`
	DiceSides       int    `json:"dice_sides" env:"CEELO_DICE_SIDES"`
	StartingBalance int    `json:"starting_balance" env:"CEELO_STARTING_BALANCE"`
	MinBet          int    `json:"min_bet" env:"CEELO_MIN_BET"`
	BustPolicy      string `json:"bust_policy" env:"CEELO_BUST_POLICY"`   // "forced" ou "push"
	AllInWinner     string `json:"allin_winner" env:"CEELO_ALLIN_WINNER"` // "out" ou "reinstate"
	Seed            int64  `json:"seed" env:"CEELO_SEED"`                 // 0 = time based
}

type DatabaseConfig struct {
	Type              string `json:"type" env:"DB_TYPE"` // "sqlite" ou "postgres"
	SQLitePath        string `json:"sqlite_path" env:"SQLITE_PATH"`
	URL               string `json:"url" env:"DATABASE_URL"`
	Host              string `json:"host" env:"DB_HOST"`
	Port              int    `json:"port" env:"DB_PORT"`
	User              string `json:"user" env:"DB_USER"`
	Password          string `json:"password" env:"DB_PASSWORD"`
	Name              string `json:"name" env:"DB_NAME"`
	SSLMode           string `json:"sslmode" env:"DB_SSLMODE"`
	SkipTableCreation bool   `json:"skip_table_creation" env:"DB_SKIP_TABLE_CREATION"`
}

type GeneralConfig struct {
	AppName        string `json:"app_name" env:"CEELO_APP_NAME"`
	CurrencySymbol string `json:"currency_symbol" env:"CEELO_CURRENCY_SYMBOL"`
	EnableAPI      bool   `json:"enable_api" env:"CEELO_ENABLE_API"`
	ApiPort        string `json:"api_port" env:"CEELO_API_PORT"`
	ApiKey         string `json:"api_key" env:"CEELO_API_KEY"`
	WebhookURL     string `json:"webhook_url" env:"CEELO_WEBHOOK_URL"`
	LogLevel       string `json:"log_level" env:"CEELO_LOG_LEVEL"`
	AnimateRolls   bool   `json:"animate_rolls" env:"CEELO_ANIMATE_ROLLS"`
}

type Config struct {
	Game     GameConfig     `json:"game"`
	General  GeneralConfig  `json:"general"`
	Database DatabaseConfig `json:"database"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() Config {
	return Config{
		Game: GameConfig{
			NumDice:         RequiredDice,
			DiceSides:       6,
			StartingBalance: 100,
			MinBet:          1,
			BustPolicy:      BustPolicyForced,
			AllInWinner:     AllInWinnerOut,
		},
		General: GeneralConfig{
			AppName:        "Cee-lo",
			CurrencySymbol: "$",
			ApiPort:        ":8080",
			LogLevel:       "info",
		},
		Database: DatabaseConfig{
			Type:       "sqlite",
			SQLitePath: "./ceelo.db",
			Port:       5432,
			Name:       "postgres",
			SSLMode:    "require",
		},
	}
}

// Load reads path (if it exists) over the defaults, then applies environment overrides.
// The .env file is expected to be loaded by the caller before Load runs.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := gonfig.GetConf(path, &cfg); err != nil {
				return cfg, fmt.Errorf("read %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the rule table or the storage layer cannot work with.
func (c *Config) Validate() error {
	g := c.Game
	if g.NumDice != RequiredDice {
		return fmt.Errorf("num_dice must be %d for the cee-lo rules, got %d", RequiredDice, g.NumDice)
	}
	if g.DiceSides < 2 {
		return fmt.Errorf("dice_sides must be at least 2, got %d", g.DiceSides)
	}
	if g.StartingBalance <= 0 {
		return fmt.Errorf("starting_balance must be positive, got %d", g.StartingBalance)
	}
	if g.MinBet < 1 {
		return fmt.Errorf("min_bet must be at least 1, got %d", g.MinBet)
	}
	switch g.BustPolicy {
	case BustPolicyForced, BustPolicyPush:
	default:
		return fmt.Errorf("bust_policy must be %q or %q, got %q", BustPolicyForced, BustPolicyPush, g.BustPolicy)
	}
	switch g.AllInWinner {
	case AllInWinnerOut, AllInWinnerReinstate:
	case "":
		c.Game.AllInWinner = AllInWinnerOut
	default:
		return fmt.Errorf("allin_winner must be %q or %q, got %q", AllInWinnerOut, AllInWinnerReinstate, g.AllInWinner)
	}

	switch c.Database.Type {
	case "sqlite", "postgres":
	case "":
		c.Database.Type = "sqlite"
	default:
		return fmt.Errorf("database type must be sqlite or postgres, got %q", c.Database.Type)
	}
	return nil
}

// ConnString returns the driver connection string for the configured database type.
func (d DatabaseConfig) ConnString() (string, error) {
	if d.Type != "postgres" {
		if d.SQLitePath == "" {
			return "./ceelo.db", nil
		}
		return d.SQLitePath, nil
	}

	// DATABASE_URL tem prioridade (funciona com pgx)
	if d.URL != "" {
		return d.URL, nil
	}

	if d.Host == "" {
		return "", errors.New("DB_HOST is required for PostgreSQL, or set DATABASE_URL")
	}
	if d.User == "" {
		return "", errors.New("DB_USER is required for PostgreSQL")
	}
	if d.Password == "" {
		return "", errors.New("DB_PASSWORD is required for PostgreSQL")
	}

	port := d.Port
	if port == 0 {
		port = 5432
	}
	name := d.Name
	if name == "" {
		name = "postgres"
	}
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "require"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, strconv.Itoa(port), d.User, d.Password, name, sslmode), nil
}

// Money formats an amount with the configured currency symbol.
func (g GeneralConfig) Money(amount int) string {
	return g.CurrencySymbol + strconv.Itoa(amount)
}
