package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/util"
	"github.com/faithfulcoronel/stewardtrack-sub004/validation"
)

// FileSystem abstracts the file operations the loader performs, so
// tests can run against a fake tree.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type osFS struct{}

func (osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFS) LoadEnv(path string) error {
	return godotenv.Load(path)
}

type loaderOptions struct {
	fs         FileSystem
	configFile string
	envFile    string
}

// LoaderOption customizes LoadConfig.
type LoaderOption func(*loaderOptions)

// WithFileSystem swaps the file system the loader reads from.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(o *loaderOptions) { o.fs = fs }
}

// WithConfigFile pins the config file path instead of searching.
func WithConfigFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile pins the .env file path instead of searching.
func WithEnvFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.envFile = path }
}

// searchDirs are the directories candidate files are looked up in,
// nearest first.
var searchDirs = []string{".", "config", "..", "../config"}

// candidatePaths pairs every name with every search directory, most
// specific name first.
func candidatePaths(names ...string) []string {
	out := make([]string, 0, len(names)*len(searchDirs))
	for _, name := range names {
		for _, dir := range searchDirs {
			out = append(out, filepath.Join(dir, name))
		}
	}
	return out
}

func findFirst(fs FileSystem, paths []string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}

// resolve returns the config and env file paths to load for appName.
// Explicit paths win; otherwise the search directories are scanned
// for <app>.yml / config.yml and .env.<app> / .env.
func (o loaderOptions) resolve(appName string) (configFile, envFile string) {
	configFile = o.configFile
	if configFile == "" {
		configFile = findFirst(o.fs, candidatePaths(appName+".yml", "config.yml"))
	}
	envFile = o.envFile
	if envFile == "" {
		envFile = findFirst(o.fs, candidatePaths(".env."+appName, ".env"))
	}
	return configFile, envFile
}

// LoadConfig fills cfg for the named app. Values are layered: the
// YAML config file first, then the .env file, then process
// environment variables. Missing files are skipped; a file that
// exists but cannot be parsed fails the load. After unmarshalling,
// any `validate` struct tags on cfg are enforced.
func LoadConfig(appName string, cfg interface{}, opts ...LoaderOption) error {
	var o loaderOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.fs == nil {
		o.fs = osFS{}
	}

	configFile, envFile := o.resolve(appName)

	v := viper.New()
	if configFile != "" && o.fs.Exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	v.AutomaticEnv()
	bindEnvironment(v)

	if envFile != "" && o.fs.Exists(envFile) {
		if err := o.fs.LoadEnv(envFile); err != nil {
			logger.Warn("config: skipping unreadable .env file", logger.Fields(
				"path", envFile,
				"error", err.Error(),
			))
		} else {
			// Pick up variables the .env file introduced.
			bindEnvironment(v)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal for %s: %w", appName, err)
	}

	// Structs without `validate` tags pass untouched; the
	// ApplyDefaults/Validate convention stays the main line of defense.
	if reflect.Indirect(reflect.ValueOf(cfg)).Kind() == reflect.Struct {
		if err := validation.ValidateStruct(cfg); err != nil {
			return fmt.Errorf("invalid config for %s: %w", appName, err)
		}
	}

	return nil
}

// bindEnvironment force-sets every process environment variable into
// Viper under each nested key it could address. AutomaticEnv alone
// cannot map POSIX names onto nested config keys.
func bindEnvironment(v *viper.Viper) {
	for _, entry := range os.Environ() {
		name, raw, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		value := util.SanitizeEnvValue(raw)
		for _, key := range envKeyVariants(name) {
			v.Set(key, value)
		}
	}
}

// envKeyVariants maps one environment variable name onto the config
// keys it can address. OFFLINE_MAX_RETRIES can mean the flat key
// offline_max_retries, the fully nested offline.max.retries, or a
// section holding a flat remainder such as offline.max_retries.
func envKeyVariants(name string) []string {
	key := strings.ToLower(name)
	parts := strings.Split(key, "_")
	if len(parts) == 1 {
		return []string{key}
	}

	seen := make(map[string]bool, len(parts)+2)
	out := make([]string, 0, len(parts)+2)
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}

	add(key)
	add(strings.ReplaceAll(key, "_", "."))
	for i := 1; i < len(parts); i++ {
		add(strings.Join(parts[:i], ".") + "." + strings.Join(parts[i:], "_"))
	}
	return out
}
