package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mallardhq/mallard/internal/types"
)

// Filename is the rc file looked up by walking from cwd toward the
// filesystem root.
const Filename = ".mallardrc"

// ChecksConfig toggles individual check categories.
type ChecksConfig struct {
	CodeQuality   bool `mapstructure:"codeQuality" json:"codeQuality"`
	Security      bool `mapstructure:"security" json:"security"`
	CodeSmell     bool `mapstructure:"codeSmell" json:"codeSmell"`
	License       bool `mapstructure:"license" json:"license"`
	Documentation bool `mapstructure:"documentation" json:"documentation"`
	TestCoverage  bool `mapstructure:"testCoverage" json:"testCoverage"`
	Performance   bool `mapstructure:"performance" json:"performance"`
	Accessibility bool `mapstructure:"accessibility" json:"accessibility"`
	LLMSpecific   bool `mapstructure:"llmSpecific" json:"llmSpecific"`
}

// EnabledCategories returns the enabled check categories in stable order.
func (c ChecksConfig) EnabledCategories() []types.Category {
	enabled := map[types.Category]bool{
		types.CategoryCodeQuality:   c.CodeQuality,
		types.CategorySecurity:      c.Security,
		types.CategoryCodeSmell:     c.CodeSmell,
		types.CategoryLicense:       c.License,
		types.CategoryDocumentation: c.Documentation,
		types.CategoryTestCoverage:  c.TestCoverage,
		types.CategoryPerformance:   c.Performance,
		types.CategoryAccessibility: c.Accessibility,
		types.CategoryLLMSpecific:   c.LLMSpecific,
	}
	var categories []types.Category
	for _, cat := range types.AllCategories {
		if enabled[cat] {
			categories = append(categories, cat)
		}
	}
	return categories
}

// Config is the resolved application configuration, mapping 1:1 to the
// .mallardrc JSON structure.
type Config struct {
	Agent             string       `mapstructure:"agent" json:"agent"`
	Provider          string       `mapstructure:"provider" json:"provider,omitempty"`
	Model             string       `mapstructure:"model" json:"model,omitempty"`
	APIKey            string       `mapstructure:"apiKey" json:"apiKey,omitempty"`
	BlockOn           string       `mapstructure:"blockOn" json:"blockOn"`
	TokenBudget       int          `mapstructure:"tokenBudget" json:"tokenBudget"`
	MaxTokensPerBatch int          `mapstructure:"maxTokensPerBatch" json:"maxTokensPerBatch"`
	CacheThreshold    float64      `mapstructure:"cacheThreshold" json:"cacheThreshold"`
	CacheDir          string       `mapstructure:"cacheDir" json:"cacheDir,omitempty"`
	MaxConcurrent     int          `mapstructure:"maxConcurrent" json:"maxConcurrent"`
	Checks            ChecksConfig `mapstructure:"checks" json:"checks"`
	EmbeddingProvider string       `mapstructure:"embeddingProvider" json:"embeddingProvider"`
	EmbeddingModel    string       `mapstructure:"embeddingModel" json:"embeddingModel,omitempty"`
	RedactSecrets     bool         `mapstructure:"redactSecrets" json:"redactSecrets"`
	ReportFormat      string       `mapstructure:"reportFormat" json:"reportFormat"`
	ReportDir         string       `mapstructure:"reportDir" json:"reportDir"`
	LogLevel          string       `mapstructure:"logLevel" json:"logLevel,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Agent:             "copilot",
		BlockOn:           "critical",
		TokenBudget:       50000,
		MaxTokensPerBatch: 12000,
		CacheThreshold:    0.92,
		MaxConcurrent:     3,
		Checks: ChecksConfig{
			CodeQuality:   true,
			Security:      true,
			CodeSmell:     true,
			Documentation: true,
		},
		EmbeddingProvider: "ollama",
		RedactSecrets:     true,
		ReportFormat:      "html",
		ReportDir:         ".mallard/reports",
		LogLevel:          "info",
	}
}

// FindFile walks up from start (cwd when empty) looking for .mallardrc.
// Returns "" when no rc file exists.
func FindFile(start string) string {
	dir := start
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, Filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// flagBindings maps config keys to the command-line flags that override
// them.
var flagBindings = map[string]string{
	"logLevel": "log-level",
	"blockOn":  "block-on",
}

// Load builds the effective config: defaults <- rc file <- MALLARD_* env.
// Validation problems are fatal here, before any scanning starts.
func Load() (Config, error) {
	return LoadFrom(FindFile(""))
}

// LoadFrom loads config using the given rc file path ("" for defaults+env
// only).
func LoadFrom(path string) (Config, error) {
	return loadFrom(path, nil)
}

// LoadWithFlags is LoadFrom with command-line flag overrides layered on
// top of the rc file and environment.
func LoadWithFlags(path string, flags *pflag.FlagSet) (Config, error) {
	return loadFrom(path, flags)
}

func loadFrom(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetConfigType("json")

	cfg := Default()
	setDefaults(v, cfg)

	v.SetEnvPrefix("MALLARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key, including zero-valued ones, so
// AutomaticEnv can resolve MALLARD_* overrides during Unmarshal.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("agent", cfg.Agent)
	v.SetDefault("provider", cfg.Provider)
	v.SetDefault("model", cfg.Model)
	v.SetDefault("apiKey", cfg.APIKey)
	v.SetDefault("blockOn", cfg.BlockOn)
	v.SetDefault("tokenBudget", cfg.TokenBudget)
	v.SetDefault("maxTokensPerBatch", cfg.MaxTokensPerBatch)
	v.SetDefault("cacheThreshold", cfg.CacheThreshold)
	v.SetDefault("maxConcurrent", cfg.MaxConcurrent)
	v.SetDefault("checks.codeQuality", cfg.Checks.CodeQuality)
	v.SetDefault("checks.security", cfg.Checks.Security)
	v.SetDefault("checks.codeSmell", cfg.Checks.CodeSmell)
	v.SetDefault("checks.license", cfg.Checks.License)
	v.SetDefault("checks.documentation", cfg.Checks.Documentation)
	v.SetDefault("checks.testCoverage", cfg.Checks.TestCoverage)
	v.SetDefault("checks.performance", cfg.Checks.Performance)
	v.SetDefault("checks.accessibility", cfg.Checks.Accessibility)
	v.SetDefault("checks.llmSpecific", cfg.Checks.LLMSpecific)
	v.SetDefault("cacheDir", cfg.CacheDir)
	v.SetDefault("embeddingProvider", cfg.EmbeddingProvider)
	v.SetDefault("embeddingModel", cfg.EmbeddingModel)
	v.SetDefault("redactSecrets", cfg.RedactSecrets)
	v.SetDefault("reportFormat", cfg.ReportFormat)
	v.SetDefault("reportDir", cfg.ReportDir)
	v.SetDefault("logLevel", cfg.LogLevel)
}

// Validate checks the config for fatal problems.
func Validate(cfg Config) error {
	switch cfg.Agent {
	case "copilot", "manual":
	default:
		return fmt.Errorf("invalid agent mode %q (want copilot or manual)", cfg.Agent)
	}
	if cfg.Agent == "manual" && cfg.Provider == "" {
		return fmt.Errorf("manual mode requires a provider; run `mallard setup`")
	}
	switch cfg.BlockOn {
	case "critical", "warning", "all", "none":
	default:
		return fmt.Errorf("invalid blockOn %q (want critical, warning, all, or none)", cfg.BlockOn)
	}
	if cfg.CacheThreshold < -1 || cfg.CacheThreshold > 1 {
		return fmt.Errorf("cacheThreshold %v out of range [-1, 1]", cfg.CacheThreshold)
	}
	if cfg.MaxConcurrent < 1 {
		return fmt.Errorf("maxConcurrent must be at least 1")
	}
	switch cfg.ReportFormat {
	case "html", "markdown":
	default:
		return fmt.Errorf("invalid reportFormat %q (want html or markdown)", cfg.ReportFormat)
	}
	return nil
}

// Save writes the config as indented JSON to .mallardrc in dir.
func Save(cfg Config, dir string) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dir, Filename)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}
