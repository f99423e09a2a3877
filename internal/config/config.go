// ABOUTME: YAML configuration for the panel server with environment overrides.
// ABOUTME: Resolves the config file, loads .env files and builds admin options.

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when neither --config nor PANEL_CONFIG is set
const DefaultFile = "panel.yaml"

const (
	defaultPort       = "9000"
	defaultActivityDB = "panel.db"
)

// File is the on-disk configuration
type File struct {
	Port       string     `yaml:"port"`
	RootPath   string     `yaml:"root_path"`
	ActivityDB string     `yaml:"activity_db"`
	Admin      Account    `yaml:"admin"`
	Branding   Branding   `yaml:"branding"`
	Assets     Assets     `yaml:"assets"`
	Databases  []Database `yaml:"databases"`
	Resources  []Resource `yaml:"resources"`
}

// Account is the single admin login. Login is disabled when Email is empty.
type Account struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type Branding struct {
	Logo            string `yaml:"logo"`
	CompanyName     string `yaml:"company_name"`
	ShowVendorBadge *bool  `yaml:"show_vendor_badge"`
}

type Assets struct {
	Styles  []string `yaml:"styles"`
	Scripts []string `yaml:"scripts"`
}

// Database is a SQLite file. With Tables set only those tables are exposed,
// otherwise every user table is.
type Database struct {
	Name   string   `yaml:"name"`
	Path   string   `yaml:"path"`
	Tables []string `yaml:"tables"`
}

// Resource customizes one table of a configured database
type Resource struct {
	Database        string   `yaml:"database"`
	Table           string   `yaml:"table"`
	Name            string   `yaml:"name"`
	Parent          string   `yaml:"parent"`
	ParentIcon      string   `yaml:"parent_icon"`
	ListProperties  []string `yaml:"list_properties"`
	EditProperties  []string `yaml:"edit_properties"`
	ShowProperties  []string `yaml:"show_properties"`
	DisabledActions []string `yaml:"disabled_actions"`
}

// Load reads a YAML config file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &f, nil
}

// Resolve loads .env files, picks the config file (flag, then PANEL_CONFIG,
// then ./panel.yaml if present) and applies environment overrides.
func Resolve(flagPath string) (*File, error) {
	loadDotEnv()

	path := flagPath
	if path == "" {
		path = os.Getenv("PANEL_CONFIG")
	}

	f := &File{}
	switch {
	case path != "":
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		f = loaded
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			loaded, err := Load(DefaultFile)
			if err != nil {
				return nil, err
			}
			f = loaded
		}
	}

	f.applyEnv()
	f.applyDefaults()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// loadDotEnv reads .env from the working directory and the home directory.
// Variables already set in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(".env"); err == nil {
		log.Print("Loaded environment from .env")
	}
	if home, err := os.UserHomeDir(); err == nil {
		godotenv.Load(filepath.Join(home, ".env"))
	}
}

func (f *File) applyEnv() {
	overrides := []struct {
		key    string
		target *string
	}{
		{"PANEL_PORT", &f.Port},
		{"PANEL_ROOT_PATH", &f.RootPath},
		{"PANEL_COMPANY_NAME", &f.Branding.CompanyName},
		{"PANEL_ADMIN_EMAIL", &f.Admin.Email},
		{"PANEL_ADMIN_PASSWORD", &f.Admin.Password},
		{"PANEL_ACTIVITY_DB", &f.ActivityDB},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.key)); v != "" {
			*o.target = v
		}
	}
}

func (f *File) applyDefaults() {
	if f.Port == "" {
		f.Port = defaultPort
	}
	if f.ActivityDB == "" {
		f.ActivityDB = defaultActivityDB
	}
}

// Validate checks paths and cross references
func (f *File) Validate() error {
	if f.Admin.Email != "" && f.Admin.Password == "" {
		return errors.New("admin.password is required when admin.email is set")
	}
	if f.ActivityDB != "" {
		if _, err := ValidateDBPath(f.ActivityDB); err != nil {
			return fmt.Errorf("activity_db: %w", err)
		}
	}

	names := make(map[string]bool, len(f.Databases))
	for i, db := range f.Databases {
		if db.Name == "" {
			return fmt.Errorf("databases[%d]: name is required", i)
		}
		if names[db.Name] {
			return fmt.Errorf("databases[%d]: duplicate name %q", i, db.Name)
		}
		names[db.Name] = true
		if _, err := ValidateDBPath(db.Path); err != nil {
			return fmt.Errorf("databases[%d]: %w", i, err)
		}
	}
	for i, r := range f.Resources {
		if !names[r.Database] {
			return fmt.Errorf("resources[%d]: unknown database %q", i, r.Database)
		}
		if r.Table == "" {
			return fmt.Errorf("resources[%d]: table is required", i)
		}
	}
	return nil
}

// ValidateDBPath validates and cleans a database path.
// Handles Unix/Linux, macOS, and Windows paths (including UNC and drive letters).
func ValidateDBPath(path string) (string, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}
	cleanPath = filepath.Clean(cleanPath)

	// Reject root-like paths
	if cleanPath == "." || cleanPath == "/" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}

	// Windows: reject bare drive letters (e.g., "C:", "D:")
	if runtime.GOOS == "windows" && len(cleanPath) == 2 && cleanPath[1] == ':' {
		return "", fmt.Errorf("database path cannot be a bare drive letter")
	}

	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("database path cannot contain '..'")
	}

	// Reject known problematic patterns
	badPatterns := []string{
		".git",
		".svn",
		"node_modules",
		".env",
		"credentials",
		"secret",
	}
	lowerPath := strings.ToLower(cleanPath)
	for _, pattern := range badPatterns {
		if strings.Contains(lowerPath, pattern) {
			return "", fmt.Errorf("database path cannot contain '%s' directory", pattern)
		}
	}

	return cleanPath, nil
}
