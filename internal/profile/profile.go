package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where oivmap stores its own data
	DSN string
	// Driver is the database driver (memory, sqlite or postgres)
	Driver string
	// DatasetPath is the path to the graph dataset document
	DatasetPath string
	// SessionSecret signs the session cookie token
	SessionSecret string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your oivmap instance.
	InstanceURL string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from OIVMAP_* environment variables.
func (p *Profile) FromEnv() {
	p.DatasetPath = getEnvOrDefault("OIVMAP_DATASET", p.DatasetPath)
	p.SessionSecret = getEnvOrDefault("OIVMAP_SESSION_SECRET", p.SessionSecret)
	p.InstanceURL = getEnvOrDefault("OIVMAP_INSTANCE_URL", p.InstanceURL)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver == "" {
		p.Driver = "memory"
	}
	switch p.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return errors.Errorf("unknown db driver %q: only 'memory', 'sqlite' and 'postgres' are supported", p.Driver)
	}

	if p.SessionSecret == "" {
		if p.Mode == "prod" {
			return errors.New("session secret must be set in prod mode")
		}
		p.SessionSecret = "oivmap-dev-secret"
	}

	// The memory driver keeps everything in process and needs a data dir
	// only when one was actually supplied.
	if p.Driver != "memory" || p.Data != "" {
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			return errors.Wrap(err, "failed to check data dir")
		}
		p.Data = dataDir
	}

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("oivmap_%s.db", p.Mode)
		p.DSN = filepath.Join(p.Data, dbFile)
	}

	if p.DatasetPath == "" && p.Data != "" {
		p.DatasetPath = filepath.Join(p.Data, "dataset.json")
	}

	return nil
}
