package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/finman-dev/finman/internal/izvod"
)

// FileName is the configuration file inside a project directory.
const FileName = "finman.yaml"

// Config represents the top-level finman.yaml configuration.
type Config struct {
	Club    ClubConfig    `yaml:"club"`
	Import  ImportConfig  `yaml:"import"`
	Decoder DecoderConfig `yaml:"decoder"`
	Store   StoreConfig   `yaml:"store"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

// ClubConfig identifies whose books these are.
type ClubConfig struct {
	Name string `yaml:"name"`
}

// ImportConfig controls where statements are picked up and how their lines
// are booked.
type ImportConfig struct {
	Dir                string   `yaml:"dir"`
	ProcessedDir       string   `yaml:"processed_dir"`
	Extensions         []string `yaml:"extensions"`
	Format             string   `yaml:"format"`
	DefaultIncomeCode  int      `yaml:"default_income_code"`
	DefaultOutcomeCode int      `yaml:"default_outcome_code"`
}

// DecoderConfig is passed to the statement decoder.
type DecoderConfig struct {
	CodePage string `yaml:"code_page"`
	Lenient  bool   `yaml:"lenient"`
}

// StoreConfig selects the ledger database.
type StoreConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	Path   string `yaml:"path"`   // sqlite file, relative to the project root
	DSNEnv string `yaml:"dsn_env"`
}

// ExportConfig controls spreadsheet output.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig controls console logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Load reads a finman.yaml file from disk. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	cfg := Default("")
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(clubName string) *Config {
	return &Config{
		Club: ClubConfig{Name: clubName},
		Import: ImportConfig{
			Dir:                "import",
			ProcessedDir:       filepath.Join("import", "processed"),
			Extensions:         []string{".txt"},
			Format:             "izvod",
			DefaultIncomeCode:  1,
			DefaultOutcomeCode: 1,
		},
		Decoder: DecoderConfig{
			CodePage: izvod.DefaultCodePage,
		},
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   "finman.db",
			DSNEnv: "FINMAN_DSN",
		},
		Export: ExportConfig{Dir: "exports"},
		Log:    LogConfig{Level: "info"},
	}
}

// Validate checks every field that has a closed set of values.
func (c *Config) Validate() error {
	var errs []error

	if c.Import.Dir == "" {
		errs = append(errs, errors.New("import.dir is empty"))
	}
	if c.Import.ProcessedDir == "" {
		errs = append(errs, errors.New("import.processed_dir is empty"))
	}
	if len(c.Import.Extensions) == 0 {
		errs = append(errs, errors.New("import.extensions is empty"))
	}
	for _, ext := range c.Import.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("import.extensions: %q must start with a dot", ext))
		}
	}
	if c.Import.DefaultIncomeCode <= 0 {
		errs = append(errs, errors.New("import.default_income_code must be positive"))
	}
	if c.Import.DefaultOutcomeCode <= 0 {
		errs = append(errs, errors.New("import.default_outcome_code must be positive"))
	}

	if _, err := izvod.New(izvod.Options{CodePage: c.Decoder.CodePage}); err != nil {
		errs = append(errs, fmt.Errorf("decoder.code_page: %w", err))
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for sqlite"))
		}
	case DriverPostgres:
		if c.Store.DSNEnv == "" {
			errs = append(errs, errors.New("store.dsn_env is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level: %q is not one of %s", c.Log.Level, strings.Join(logLevels, ", ")))
	}

	return errors.Join(errs...)
}

// LoadEnv loads <root>/.env into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadEnv(root string) error {
	err := godotenv.Load(filepath.Join(root, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// DSN returns the postgres connection string from the configured variable.
func (c *Config) DSN() (string, error) {
	dsn := os.Getenv(c.Store.DSNEnv)
	if dsn == "" {
		return "", fmt.Errorf("environment variable %s is not set", c.Store.DSNEnv)
	}
	return dsn, nil
}

// Resolve returns p relative to root unless it is absolute.
func Resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
