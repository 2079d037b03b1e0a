package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/internship-allocation/pkg/core/scoring"
)

// Source kinds
const (
	SourceCSV      = "csv"
	SourceSample   = "sample"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
	SourceSheets   = "sheets"
)

// ErrConfigNotFound is returned when no config file exists in the search path
var ErrConfigNotFound = errors.New("config file not found in current directory or home directory")

// MatchingConfig holds the scoring and allocation settings
type MatchingConfig struct {
	TopN          int `yaml:"topN" validate:"min=1"`
	AcademicScale int `yaml:"academicScale" validate:"oneof=10 100"`

	// Weights and boosts outside their range are clamped by Weights, not rejected
	SkillWeightPct    float64 `yaml:"skillWeightPct"`
	AcademicWeightPct float64 `yaml:"academicWeightPct"`
	PreferenceBoost   float64 `yaml:"preferenceBoost"`
	LocationBoost     float64 `yaml:"locationBoost"`
	ClampScore        bool    `yaml:"clampScore"`
	UseFairness       bool    `yaml:"useFairness"`
	TargetRuralPct    float64 `yaml:"targetRuralPct" validate:"min=0,max=100"`
}

// SourceConfig selects where students and postings are read from
type SourceConfig struct {
	Kind          string `yaml:"kind" validate:"required,oneof=csv sample postgres sqlite sheets"`
	StudentsCSV   string `yaml:"studentsCSV" validate:"required_if=Kind csv"`
	PostingsCSV   string `yaml:"postingsCSV" validate:"required_if=Kind csv"`
	PostgresURL   string `yaml:"postgresURL" validate:"required_if=Kind postgres"`
	SQLitePath    string `yaml:"sqlitePath" validate:"required_if=Kind sqlite"`
	SpreadsheetID string `yaml:"spreadsheetID" validate:"required_if=Kind sheets"`
	StudentsTab   string `yaml:"studentsTab" validate:"required_if=Kind sheets"`
	PostingsTab   string `yaml:"postingsTab" validate:"required_if=Kind sheets"`
}

// Config represents the application configuration
type Config struct {
	Matching    MatchingConfig `yaml:"matching"`
	Source      SourceConfig   `yaml:"source"`
	MetricsFile string         `yaml:"metricsFile,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no file sets a value
func Default() *Config {
	return &Config{
		Matching: MatchingConfig{
			TopN:              3,
			SkillWeightPct:    scoring.DefaultSkillWeightPct,
			AcademicWeightPct: scoring.DefaultAcademicWeightPct,
			PreferenceBoost:   scoring.DefaultPreferenceBoost,
			LocationBoost:     scoring.DefaultLocationBoost,
			AcademicScale:     int(scoring.ScaleCGPA),
			UseFairness:       true,
			TargetRuralPct:    30,
		},
		Source: SourceConfig{
			Kind:        SourceCSV,
			StudentsCSV: "students.csv",
			PostingsCSV: "internships.csv",
			StudentsTab: "Students",
			PostingsTab: "Internships",
		},
	}
}

// LoadWithEnv loads and validates internship_config.yaml, or
// internship_config.<env>.yaml when env is set.
// It looks in the current directory first, then in the user's home directory.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Keys missing from the file keep their Default values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Weights converts the matching section into normalized scoring weights
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{
		SkillWeightPct:    c.Matching.SkillWeightPct,
		AcademicWeightPct: c.Matching.AcademicWeightPct,
		PreferenceBoost:   c.Matching.PreferenceBoost,
		LocationBoost:     c.Matching.LocationBoost,
		AcademicScale:     scoring.AcademicScale(c.Matching.AcademicScale),
		ClampScore:        c.Matching.ClampScore,
	}.Normalize()
}

// TargetRuralFraction returns the configured rural target as a fraction in [0, 1]
func (c *Config) TargetRuralFraction() float64 {
	return c.Matching.TargetRuralPct / 100
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "internship_config.yaml"
	if env != "" {
		configFileName = "internship_config." + env + ".yaml"
	}
	return findFile(configFileName)
}

// findFile returns name if it exists in the current directory, otherwise the
// same name in the user's home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s: %w", name, ErrConfigNotFound)
}
