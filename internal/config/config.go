// Package config holds runtime settings and gameplay balance tuning.
// A YAML file can override any field; Default() is always complete.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds process-level settings for the simulation server.
type Config struct {
	Port        int    `yaml:"port"`
	DBPath      string `yaml:"db_path"`
	DatasetPath string `yaml:"dataset_path"` // Local JSON file with country records
	DatasetURL  string `yaml:"dataset_url"`  // Fallback fetch when no local file exists
	Seed        int64  `yaml:"seed"`         // 0 = seed from wall clock
	StartDate   string `yaml:"start_date"`   // In-game calendar start, YYYY-MM-DD

	Balance Balance `yaml:"balance"`
}

// Balance holds gameplay balance configuration.
type Balance struct {
	// GDP and treasury.
	MaxTreasury       int64   `yaml:"max_treasury"`
	PlayerGrowthRate  float64 `yaml:"player_growth_rate"`  // Player GDP growth per year
	WorldGrowthRate   float64 `yaml:"world_growth_rate"`   // Everyone else's growth per year
	IncomeRate        float64 `yaml:"income_rate"`         // Yearly treasury credit as fraction of GDP
	GDPTableScale     int64   `yaml:"gdp_table_scale"`     // In-game GDP = reference billions × scale
	FallbackPerCapita float64 `yaml:"fallback_per_capita"` // Dollars per head for countries off the table

	// Diplomacy.
	ImproveFee       int64 `yaml:"improve_fee"`
	ImproveStep      int   `yaml:"improve_step"`
	WorsenStep       int   `yaml:"worsen_step"`
	TradeFee         int64 `yaml:"trade_fee"`
	TradeMinRelation int   `yaml:"trade_min_relation"`
	// TradeVolumeRate is applied to the sum of both parties' GDP.
	TradeVolumeRate    float64 `yaml:"trade_volume_rate"`
	InitialRelationMin int     `yaml:"initial_relation_min"`
	InitialRelationMax int     `yaml:"initial_relation_max"`

	// Happiness.
	HappinessBaseDrift  int     `yaml:"happiness_base_drift"` // Applied every year, usually negative
	LowReserveRatio     float64 `yaml:"low_reserve_ratio"`    // Treasury/GDP below this is a penalty
	LowReservePenalty   int     `yaml:"low_reserve_penalty"`
	HighReserveRatio    float64 `yaml:"high_reserve_ratio"` // Treasury/GDP above this is a bonus
	HighReserveBonus    int     `yaml:"high_reserve_bonus"`
	WarPenaltyPerWar    int     `yaml:"war_penalty_per_war"`
	WarDeclaredPenalty  int     `yaml:"war_declared_penalty"` // One-off hit when a war starts
	PeaceRestoredBonus  int     `yaml:"peace_restored_bonus"` // One-off gain when a war ends
	HappinessPerkRange  int     `yaml:"happiness_perk_range"` // Random yearly perk in [-n, n]
	StartingHappiness   int     `yaml:"starting_happiness"`

	// Clock.
	SpeedMin         int     `yaml:"speed_min"`
	SpeedMax         int     `yaml:"speed_max"`
	MaxElapsedMS     float64 `yaml:"max_elapsed_ms"`     // Clamp for backgrounded-tab gaps
	MaxDaysPerTick   int     `yaml:"max_days_per_tick"`  // Runaway-loop guard
	WatchdogWindowMS int64   `yaml:"watchdog_window_ms"` // Stall detection window

	// News.
	NewsBufferCap int `yaml:"news_buffer_cap"`

	// Resource economy.
	CapacityUtilization float64 `yaml:"capacity_utilization"` // Starting stock fill fraction
	ResourceDriftScale  float64 `yaml:"resource_drift_scale"` // Max yearly stock drift fraction
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Port:        8080,
		DBPath:      "data/monetary_state.db",
		DatasetPath: "data/countries.json",
		DatasetURL:  "https://restcountries.com/v3.1/all?fields=name,latlng,population,cca2,region",
		Seed:        0,
		StartDate:   "2025-01-01",
		Balance:     DefaultBalance(),
	}
}

// DefaultBalance returns the default gameplay tuning.
func DefaultBalance() Balance {
	return Balance{
		MaxTreasury:       50_000_000_000,
		PlayerGrowthRate:  0.03,
		WorldGrowthRate:   0.015,
		IncomeRate:        0.02,
		GDPTableScale:     1000,
		FallbackPerCapita: 5000,

		ImproveFee:         250_000,
		ImproveStep:        15,
		WorsenStep:         15,
		TradeFee:           500_000,
		TradeMinRelation:   30,
		TradeVolumeRate:    0.01,
		InitialRelationMin: -20,
		InitialRelationMax: 20,

		HappinessBaseDrift: -1,
		LowReserveRatio:    0.05,
		LowReservePenalty:  4,
		HighReserveRatio:   0.30,
		HighReserveBonus:   3,
		WarPenaltyPerWar:   3,
		WarDeclaredPenalty: 10,
		PeaceRestoredBonus: 8,
		HappinessPerkRange: 2,
		StartingHappiness:  100,

		SpeedMin:         1,
		SpeedMax:         5,
		MaxElapsedMS:     30_000,
		MaxDaysPerTick:   366,
		WatchdogWindowMS: 10_000,

		NewsBufferCap: 20,

		CapacityUtilization: 0.6,
		ResourceDriftScale:  0.1,
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; an unreadable or malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
