package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ormsynth/internal/fullnames"
)

// FileName is the manifest looked up from the working directory upward.
const FileName = "ormsynth.toml"

// DefaultMaxIterations bounds the semantic-analysis fixpoint.
const DefaultMaxIterations = 20

type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
	ORM      ORMConfig      `toml:"orm"`
	Django   DjangoConfig   `toml:"django"`
}

type AnalysisConfig struct {
	MaxIterations int `toml:"max_iterations"`
}

type ORMConfig struct {
	Manager         string `toml:"manager"`
	BaseManager     string `toml:"base_manager"`
	QuerySet        string `toml:"queryset"`
	Model           string `toml:"model"`
	GeneratedModule string `toml:"generated_module"`
}

type DjangoConfig struct {
	AuthUserModel string            `toml:"auth_user_model"`
	Apps          map[string]string `toml:"apps"` // "app_label.Model" -> class fullname
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	n := fullnames.Default()
	return Config{
		Analysis: AnalysisConfig{MaxIterations: DefaultMaxIterations},
		ORM: ORMConfig{
			Manager:         n.Manager,
			BaseManager:     n.BaseManager,
			QuerySet:        n.QuerySet,
			Model:           n.Model,
			GeneratedModule: n.GeneratedModule,
		},
		Django: DjangoConfig{
			AuthUserModel: "auth.User",
			Apps:          map[string]string{"auth.User": "django.contrib.auth.models.User"},
		},
	}
}

// Names returns the ORM anchors this configuration selects.
func (c Config) Names() fullnames.Names {
	n := fullnames.Default()
	n.Manager = c.ORM.Manager
	n.BaseManager = c.ORM.BaseManager
	n.QuerySet = c.ORM.QuerySet
	n.Model = c.ORM.Model
	n.GeneratedModule = c.ORM.GeneratedModule
	return n
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads the manifest at path. Keys left out keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML text over Default.
func Parse(text string) (Config, error) {
	cfg := Default()
	apps := cfg.Django.Apps
	cfg.Django.Apps = nil
	meta, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if !meta.IsDefined("django", "apps") {
		cfg.Django.Apps = apps
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Discover loads the manifest found from startDir, or defaults.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks value ranges and fullname shapes.
func (c Config) Validate() error {
	var errs []error
	if c.Analysis.MaxIterations < 2 {
		errs = append(errs, fmt.Errorf("[analysis].max_iterations must be at least 2, got %d", c.Analysis.MaxIterations))
	}
	for key, value := range map[string]string{
		"manager":      c.ORM.Manager,
		"base_manager": c.ORM.BaseManager,
		"queryset":     c.ORM.QuerySet,
		"model":        c.ORM.Model,
	} {
		if !strings.Contains(strings.TrimSpace(value), ".") {
			errs = append(errs, fmt.Errorf("[orm].%s must be a fully qualified class name, got %q", key, value))
		}
	}
	if strings.TrimSpace(c.ORM.GeneratedModule) == "" {
		errs = append(errs, errors.New("[orm].generated_module must not be empty"))
	}
	if label := c.Django.AuthUserModel; strings.Count(label, ".") != 1 {
		errs = append(errs, fmt.Errorf("[django].auth_user_model must look like \"app_label.Model\", got %q", label))
	}
	return errors.Join(errs...)
}
