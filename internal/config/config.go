// Package config loads configuration for the symbolic command.
package config

import (
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/symbolic"
)

// Config is the configuration of the symbolic command.
type Config struct {
	// ChainRule is "literal" or "full".
	ChainRule string `yaml:"chain_rule"`
	// LeftIdentity is "literal" or "sound".
	LeftIdentity string `yaml:"left_identity"`
	// Precision is the number of mantissa bits used in evaluation.
	Precision uint `yaml:"precision"`
	// Format is the fmt verb used to print evaluated numbers, e.g. "g".
	Format string `yaml:"format"`
	// Trace enables logging of every rewrite.
	Trace bool `yaml:"trace"`
	// Constants maps extra named constants to their values. Each name is
	// recognized by the parser and bound in evaluation.
	Constants map[string]string `yaml:"constants"`
	// Given maps single-character variables to values for evaluation.
	Given map[string]string `yaml:"given"`
	// History is the REPL history file. Empty disables history.
	History string `yaml:"history"`

	// Path is the file the configuration was loaded from, if any.
	Path string `yaml:"-"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		ChainRule:    "literal",
		LeftIdentity: "literal",
		Precision:    64,
		Format:       "g",
		Constants:    map[string]string{},
		Given:        map[string]string{},
	}
}

// Load reads configuration from a file with ENV interpolation. If path is
// empty, it searches default locations, and finding no file there is not an
// error.
func Load(path string, getenv func(string) string) (*Config, error) {
	path, err := resolveConfigPath(path, getenv)
	if err != nil {
		return nil, err
	}
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	data = interpolateEnv(data, getenv)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	// A key with no value decodes as a nil map.
	if cfg.Constants == nil {
		cfg.Constants = map[string]string{}
	}
	if cfg.Given == nil {
		cfg.Given = map[string]string{}
	}
	cfg.Path = absPath
	if cfg.History != "" {
		cfg.History = resolvePath(cfg.History, filepath.Dir(absPath))
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}
	if envPath := getenv("SYMBOLIC_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("SYMBOLIC_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}
	if _, err := os.Stat("symbolic.yaml"); err == nil {
		return "symbolic.yaml", nil
	}
	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "symbolic", "symbolic.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}
	return "", nil
}

// resolvePath expands a leading ~ and makes relative paths relative to dir.
func resolvePath(p, dir string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		value := getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}

// verbs are the fmt verbs that *big.Float formats.
const verbs = "bpeEfFgGxXv"

// Validate checks a configuration for errors, reporting all of them at once.
func Validate(cfg *Config) error {
	var errs []string
	switch cfg.ChainRule {
	case "literal", "full":
	default:
		errs = append(errs, fmt.Sprintf("invalid chain_rule: %q (must be literal or full)", cfg.ChainRule))
	}
	switch cfg.LeftIdentity {
	case "literal", "sound":
	default:
		errs = append(errs, fmt.Sprintf("invalid left_identity: %q (must be literal or sound)", cfg.LeftIdentity))
	}
	if cfg.Precision == 0 || cfg.Precision > big.MaxPrec {
		errs = append(errs, fmt.Sprintf("invalid precision: %d", cfg.Precision))
	}
	if len(cfg.Format) != 1 || !strings.Contains(verbs, cfg.Format) {
		errs = append(errs, fmt.Sprintf("invalid format: %q (must be one of %s)", cfg.Format, verbs))
	}
	for _, name := range sortedKeys(cfg.Constants) {
		if name == "" || strings.ContainsAny(name, " \t\r\n") {
			errs = append(errs, fmt.Sprintf("invalid constant name: %q", name))
			continue
		}
		if _, ok := new(big.Float).SetString(cfg.Constants[name]); !ok {
			errs = append(errs, fmt.Sprintf("invalid value for constant %s: %q", name, cfg.Constants[name]))
		}
	}
	for _, name := range sortedKeys(cfg.Given) {
		if utf8.RuneCountInString(name) != 1 {
			errs = append(errs, fmt.Sprintf("invalid variable name: %q (variables are single characters)", name))
			continue
		}
		if _, ok := new(big.Float).SetString(cfg.Given[name]); !ok {
			errs = append(errs, fmt.Sprintf("invalid value for variable %s: %q", name, cfg.Given[name]))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	r := make([]string, 0, len(m))
	for k := range m {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Chain returns the configured chain rule mode.
func (cfg *Config) Chain() symbolic.ChainRule {
	if cfg.ChainRule == "full" {
		return symbolic.Full
	}
	return symbolic.Literal
}

// Identity returns the configured left identity mode.
func (cfg *Config) Identity() symbolic.IdentityRule {
	if cfg.LeftIdentity == "sound" {
		return symbolic.SoundIdentity
	}
	return symbolic.LiteralIdentity
}

// EngineOptions returns the options for a differentiation engine. If tracing
// is enabled, rewrites are logged to l.
func (cfg *Config) EngineOptions(l *log.Logger) []symbolic.Option {
	opts := []symbolic.Option{
		symbolic.WithChainRule(cfg.Chain()),
		symbolic.WithIdentityRule(cfg.Identity()),
	}
	if cfg.Trace && l != nil {
		opts = append(opts, symbolic.WithTracer(symbolic.LogTracer(l)))
	}
	return opts
}

// ParseOptions returns the parser options that recognize the configured
// constants.
func (cfg *Config) ParseOptions() []symbolic.ParseOption {
	if len(cfg.Constants) == 0 {
		return nil
	}
	return []symbolic.ParseOption{symbolic.ParsingPreset(symbolic.ParseConst(sortedKeys(cfg.Constants)...))}
}

// ContextOptions returns the evaluation options for the configured
// precision, constants, and given variables.
func (cfg *Config) ContextOptions() ([]symbolic.ContextOption, error) {
	opts := []symbolic.ContextOption{symbolic.Prec(cfg.Precision)}
	for _, name := range sortedKeys(cfg.Constants) {
		v, ok := new(big.Float).SetPrec(cfg.Precision).SetString(cfg.Constants[name])
		if !ok {
			return nil, fmt.Errorf("invalid value for constant %s: %q", name, cfg.Constants[name])
		}
		opts = append(opts, symbolic.SetConst(name, v))
	}
	for _, name := range sortedKeys(cfg.Given) {
		r, _ := utf8.DecodeRuneInString(name)
		v, ok := new(big.Float).SetPrec(cfg.Precision).SetString(cfg.Given[name])
		if !ok || utf8.RuneCountInString(name) != 1 {
			return nil, fmt.Errorf("invalid given %s = %q", name, cfg.Given[name])
		}
		opts = append(opts, symbolic.SetVar(symbolic.Var(r), v))
	}
	return opts, nil
}
