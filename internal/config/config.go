package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultProgramDays is the length of the journey.
const DefaultProgramDays = 90

// Config holds the top-level upwell configuration.
type Config struct {
	User    UserConfig    `toml:"user"`
	Journey JourneyConfig `toml:"journey"`
	Store   StoreConfig   `toml:"store"`
}

type UserConfig struct {
	Name string `toml:"name"`
	// ID scopes every record. Minted once by `upwell init`.
	ID string `toml:"id"`
}

// JourneyConfig describes the user's program.
type JourneyConfig struct {
	StartDate   string `toml:"start_date"` // YYYY-MM-DD
	ProgramDays int    `toml:"program_days"`
	GLP1        bool   `toml:"glp1"`       // the user is on GLP-1 medication
	Medication  string `toml:"medication"` // default for `upwell glp1 log`
	Dose        string `toml:"dose"`
}

// Days returns the program length, falling back to the default.
func (j JourneyConfig) Days() int {
	if j.ProgramDays <= 0 {
		return DefaultProgramDays
	}
	return j.ProgramDays
}

// StoreConfig selects the record store.
type StoreConfig struct {
	Driver string `toml:"driver"` // sqlite (default) or postgres
	DSN    string `toml:"dsn"`
}

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	ConfigFile string
	DBFile     string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	cacheDir := envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	appConfig := filepath.Join(configDir, "upwell")
	appData := filepath.Join(dataDir, "upwell")

	return Paths{
		ConfigDir:  appConfig,
		DataDir:    appData,
		CacheDir:   filepath.Join(cacheDir, "upwell"),
		StateDir:   filepath.Join(stateDir, "upwell"),
		ConfigFile: filepath.Join(appConfig, "config.toml"),
		DBFile:     filepath.Join(appData, "upwell.db"),
	}
}

// EnsureDirs creates all required directories.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk, returning defaults if not found.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := defaultConfig()

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(paths.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized returns true if upwell has been set up.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

func defaultConfig() *Config {
	return &Config{
		Journey: JourneyConfig{
			ProgramDays: DefaultProgramDays,
		},
		Store: StoreConfig{
			Driver: "sqlite",
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
