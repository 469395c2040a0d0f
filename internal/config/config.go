package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jakechorley/publication-allocator/pkg/core/allocator"
)

const (
	configFileName = "allocator_config"
	envPrefix      = "PUBALLOC"
)

// AllocationSettings configures the improvement loop
type AllocationSettings struct {
	ThresholdMultipliers    []int   `mapstructure:"thresholdMultipliers" validate:"required,min=1,dive,min=1"`
	CancellationProbability float64 `mapstructure:"cancellationProbability" validate:"min=0,max=1"`
	HeuristicRatio          float64 `mapstructure:"heuristicRatio" validate:"gt=0"`
	HeuristicTarget         int     `mapstructure:"heuristicTarget" validate:"min=0"`
	Seed                    int64   `mapstructure:"seed"`
	Restarts                int     `mapstructure:"restarts" validate:"min=1,max=256"`
	InitialSelection        string  `mapstructure:"initialSelection" validate:"oneof=none all top random"`
	InitialPerAuthor        int     `mapstructure:"initialPerAuthor" validate:"min=1"`
}

// LimitsSettings mirrors allocator.Limits so institutions can tune the quotas
type LimitsSettings struct {
	PublicationCoefficient   float64 `mapstructure:"publicationCoefficient" validate:"gt=0"`
	MonographCoefficient     float64 `mapstructure:"monographCoefficient" validate:"gt=0"`
	MonographExemptionPoints float64 `mapstructure:"monographExemptionPoints" validate:"min=0"`
	PhDCeiling               float64 `mapstructure:"phdCeiling" validate:"gt=0"`
	EmployeeCoefficient      float64 `mapstructure:"employeeCoefficient" validate:"min=0"`
	N0Coefficient            float64 `mapstructure:"n0Coefficient" validate:"min=0"`
	N1Coefficient            float64 `mapstructure:"n1Coefficient" validate:"min=0"`
	N2Coefficient            float64 `mapstructure:"n2Coefficient" validate:"min=0"`
	MonographShare           float64 `mapstructure:"monographShare" validate:"min=0,max=1"`
	PhDOutsiderShare         float64 `mapstructure:"phdOutsiderShare" validate:"min=0,max=1"`
}

// StorageSettings selects the run store
type StorageSettings struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	DSN    string `mapstructure:"dsn" validate:"required"`

	// AutoMigrate applies pending migrations whenever the store is opened
	AutoMigrate bool `mapstructure:"autoMigrate"`
}

// SheetsSettings points at the spreadsheet runs are published to
type SheetsSettings struct {
	SpreadsheetID string `mapstructure:"spreadsheetID"`
}

// Config represents the application configuration
type Config struct {
	Allocation AllocationSettings `mapstructure:"allocation"`
	Limits     LimitsSettings     `mapstructure:"limits"`
	Storage    StorageSettings    `mapstructure:"storage"`
	ResultsDir string             `mapstructure:"resultsDir" validate:"required"`
	Sheets     SheetsSettings     `mapstructure:"sheets"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads allocator_config.yaml from the current directory or the home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix.
// For example, env="test" looks for "allocator_config.test.yaml".
// A missing file is not an error: defaults and PUBALLOC_* variables still apply.
func LoadWithEnv(env string) (*Config, error) {
	v := newViper()

	name := configFileName
	if env != "" {
		name = configFileName + "." + env
	}
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return decode(v)
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// AllocatorLimits converts the configured quotas into allocator.Limits
func (c *Config) AllocatorLimits() allocator.Limits {
	l := c.Limits
	return allocator.Limits{
		PublicationCoefficient:   l.PublicationCoefficient,
		MonographCoefficient:     l.MonographCoefficient,
		MonographExemptionPoints: l.MonographExemptionPoints,
		PhDCeiling:               l.PhDCeiling,
		EmployeeCoefficient:      l.EmployeeCoefficient,
		N0Coefficient:            l.N0Coefficient,
		N1Coefficient:            l.N1Coefficient,
		N2Coefficient:            l.N2Coefficient,
		MonographShare:           l.MonographShare,
		PhDOutsiderShare:         l.PhDOutsiderShare,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("allocation.thresholdMultipliers", allocator.DefaultThresholdMultipliers)
	v.SetDefault("allocation.cancellationProbability", 0.5)
	v.SetDefault("allocation.heuristicRatio", 1.0)
	v.SetDefault("allocation.heuristicTarget", 0)
	v.SetDefault("allocation.seed", 0)
	v.SetDefault("allocation.restarts", 1)
	v.SetDefault("allocation.initialSelection", string(allocator.SelectionNone))
	v.SetDefault("allocation.initialPerAuthor", 1)

	limits := allocator.DefaultLimits()
	v.SetDefault("limits.publicationCoefficient", limits.PublicationCoefficient)
	v.SetDefault("limits.monographCoefficient", limits.MonographCoefficient)
	v.SetDefault("limits.monographExemptionPoints", limits.MonographExemptionPoints)
	v.SetDefault("limits.phdCeiling", limits.PhDCeiling)
	v.SetDefault("limits.employeeCoefficient", limits.EmployeeCoefficient)
	v.SetDefault("limits.n0Coefficient", limits.N0Coefficient)
	v.SetDefault("limits.n1Coefficient", limits.N1Coefficient)
	v.SetDefault("limits.n2Coefficient", limits.N2Coefficient)
	v.SetDefault("limits.monographShare", limits.MonographShare)
	v.SetDefault("limits.phdOutsiderShare", limits.PhDOutsiderShare)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "data/allocator.db")
	v.SetDefault("storage.autoMigrate", true)
	v.SetDefault("resultsDir", "results")
	v.SetDefault("sheets.spreadsheetID", "")
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
