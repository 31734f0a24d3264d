package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/upwell-app/upwell/internal/dates"
)

// KeyType represents the data type of a config key.
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeInt    KeyType = "int"
	KeyTypeBool   KeyType = "bool"
)

// KeyEntry describes a known, settable config key.
type KeyEntry struct {
	// Type is the value's data type (string, int, bool).
	Type KeyType
	// Desc is a human-readable description shown in `upwell config list`.
	Desc string
	// DefaultStr is the string representation of the default/zero value.
	DefaultStr string

	get   func(*Config) string
	set   func(cfg *Config, value string) error
	unset func(cfg *Config)
}

// Get returns the current value of the key as a string.
func (e *KeyEntry) Get(cfg *Config) string { return e.get(cfg) }

// Set validates and sets the value, returning a descriptive error on type mismatch.
func (e *KeyEntry) Set(cfg *Config, value string) error { return e.set(cfg, value) }

// Unset resets the key to its schema default.
func (e *KeyEntry) Unset(cfg *Config) { e.unset(cfg) }

// SchemaKeys is the authoritative registry of all settable config keys.
// Keys use dot-notation matching the TOML section structure.
var SchemaKeys = map[string]*KeyEntry{
	"user.name": {
		Type:       KeyTypeString,
		Desc:       "Display name",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.User.Name },
		set:        func(cfg *Config, v string) error { cfg.User.Name = v; return nil },
		unset:      func(cfg *Config) { cfg.User.Name = "" },
	},
	"journey.start_date": {
		Type:       KeyTypeString,
		Desc:       "First day of the program (YYYY-MM-DD)",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.Journey.StartDate },
		set: func(cfg *Config, v string) error {
			if v != "" && !dates.Valid(v) {
				return fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", v)
			}
			cfg.Journey.StartDate = v
			return nil
		},
		unset: func(cfg *Config) { cfg.Journey.StartDate = "" },
	},
	"journey.program_days": {
		Type:       KeyTypeInt,
		Desc:       "Program length in days",
		DefaultStr: strconv.Itoa(DefaultProgramDays),
		get:        func(cfg *Config) string { return strconv.Itoa(cfg.Journey.Days()) },
		set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid value %q for journey.program_days: must be a positive integer", v)
			}
			cfg.Journey.ProgramDays = n
			return nil
		},
		unset: func(cfg *Config) { cfg.Journey.ProgramDays = DefaultProgramDays },
	},
	"journey.glp1": {
		Type:       KeyTypeBool,
		Desc:       "Track GLP-1 medication applications",
		DefaultStr: "false",
		get:        func(cfg *Config) string { return strconv.FormatBool(cfg.Journey.GLP1) },
		set: func(cfg *Config, v string) error {
			b, err := ParseBoolValue(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for journey.glp1: %w", v, err)
			}
			cfg.Journey.GLP1 = b
			return nil
		},
		unset: func(cfg *Config) { cfg.Journey.GLP1 = false },
	},
	"journey.medication": {
		Type:       KeyTypeString,
		Desc:       "Default medication name for `upwell glp1 log`",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.Journey.Medication },
		set:        func(cfg *Config, v string) error { cfg.Journey.Medication = v; return nil },
		unset:      func(cfg *Config) { cfg.Journey.Medication = "" },
	},
	"journey.dose": {
		Type:       KeyTypeString,
		Desc:       "Default dose label for `upwell glp1 log`",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.Journey.Dose },
		set:        func(cfg *Config, v string) error { cfg.Journey.Dose = v; return nil },
		unset:      func(cfg *Config) { cfg.Journey.Dose = "" },
	},
	"store.driver": {
		Type:       KeyTypeString,
		Desc:       "Record store (sqlite, postgres)",
		DefaultStr: "sqlite",
		get:        func(cfg *Config) string { return cfg.Store.Driver },
		set: func(cfg *Config, v string) error {
			switch v {
			case "sqlite", "postgres":
				cfg.Store.Driver = v
				return nil
			}
			return fmt.Errorf("invalid value %q for store.driver (use sqlite or postgres)", v)
		},
		unset: func(cfg *Config) { cfg.Store.Driver = "sqlite" },
	},
	"store.dsn": {
		Type:       KeyTypeString,
		Desc:       "Database file path (sqlite) or connection string (postgres)",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.Store.DSN },
		set:        func(cfg *Config, v string) error { cfg.Store.DSN = v; return nil },
		unset:      func(cfg *Config) { cfg.Store.DSN = "" },
	},
}

// ValidKeyNames returns the sorted list of all known config key names.
func ValidKeyNames() []string {
	names := make([]string, 0, len(SchemaKeys))
	for k := range SchemaKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupKey returns the KeyEntry for a known config key.
func LookupKey(key string) (*KeyEntry, bool) {
	entry, ok := SchemaKeys[key]
	return entry, ok
}

// ParseBoolValue accepts common boolean string representations.
// Valid truthy values: true, 1, yes, on.
// Valid falsy values: false, 0, no, off.
func ParseBoolValue(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q (use one of: true/false, 1/0, yes/no, on/off)", s)
	}
}
