// Package config provides configuration file support for council.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/richhaase/council/internal/domain"
	"github.com/richhaase/council/internal/git"
)

// ConfigDirName is the per-repository directory holding configuration,
// custom agent definitions, and review history.
const ConfigDirName = ".council"

// ConfigFileName is the config file name inside ConfigDirName.
const ConfigFileName = "config.toml"

var agentNameRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// Config is the parsed configuration file. Pointer fields distinguish
// "not set" from an explicit zero so resolution can fall through to
// defaults.
type Config struct {
	Model             *string `toml:"model"`
	Timeout           *int    `toml:"timeout"`
	MaxTurns          *int    `toml:"max_turns"`
	Parallel          *bool   `toml:"parallel"`
	BaseBranch        *string `toml:"base_branch"`
	OutputFormat      *string `toml:"output_format"`
	SaveReviews       *bool   `toml:"save_reviews"`
	ShowCost          *bool   `toml:"show_cost"`
	MaxFilesPerReview *int    `toml:"max_files_per_review"`
	AgentsDir         *string `toml:"agents_dir"`

	Selector    SelectorConfig         `toml:"selector"`
	Aggregation AggregationConfig      `toml:"aggregation"`
	Agents      map[string]AgentConfig `toml:"agents"`
}

// SelectorConfig overrides execution parameters for the selector agent.
// AllowedTools replaces (not extends) the selector's default tool set.
type SelectorConfig struct {
	Model        *string  `toml:"model"`
	Timeout      *int     `toml:"timeout"`
	MaxTurns     *int     `toml:"max_turns"`
	AllowedTools []string `toml:"allowed_tools"`
}

// AgentConfig overrides execution parameters for one reviewer agent.
type AgentConfig struct {
	Enabled  *bool   `toml:"enabled"`
	Model    *string `toml:"model"`
	Timeout  *int    `toml:"timeout"`
	MaxTurns *int    `toml:"max_turns"`
}

// AggregationConfig controls the optional aggregation pass.
type AggregationConfig struct {
	Enabled  *bool   `toml:"enabled"`
	Model    *string `toml:"model"`
	Timeout  *int    `toml:"timeout"`
	MaxTurns *int    `toml:"max_turns"`
}

// Defaults holds the built-in default values.
var Defaults = Resolved{
	Model:              "claude-sonnet-4-5",
	Timeout:            300,
	MaxTurns:           10,
	Parallel:           true,
	BaseBranch:         "main",
	OutputFormat:       "markdown",
	SaveReviews:        true,
	ShowCost:           false,
	MaxFilesPerReview:  100,
	AggregationEnabled: true,
}

// Resolved is the configuration after merging file values over defaults.
// Per-agent and selector overrides stay attached for per-call resolution.
type Resolved struct {
	Model              string
	Timeout            int
	MaxTurns           int
	Parallel           bool
	BaseBranch         string
	OutputFormat       string
	SaveReviews        bool
	ShowCost           bool
	MaxFilesPerReview  int
	AgentsDir          string
	AggregationEnabled bool

	Selector    SelectorConfig
	Aggregation AggregationConfig
	Agents      map[string]AgentConfig
}

// AgentEnabled reports whether the named agent is enabled. Agents are
// enabled unless their config section says otherwise.
func (r *Resolved) AgentEnabled(name string) bool {
	if ac, ok := r.Agents[name]; ok && ac.Enabled != nil {
		return *ac.Enabled
	}
	return true
}

// AgentModel resolves the model for one agent: per-agent override, then
// the definition's own model, then the global model.
func (r *Resolved) AgentModel(name, definitionModel string) string {
	if ac, ok := r.Agents[name]; ok && ac.Model != nil {
		return *ac.Model
	}
	if definitionModel != "" {
		return definitionModel
	}
	return r.Model
}

// AgentTimeout resolves the timeout in seconds for one agent.
func (r *Resolved) AgentTimeout(name string) int {
	if ac, ok := r.Agents[name]; ok && ac.Timeout != nil {
		return *ac.Timeout
	}
	return r.Timeout
}

// AgentMaxTurns resolves the turn budget for one agent.
func (r *Resolved) AgentMaxTurns(name string) int {
	if ac, ok := r.Agents[name]; ok && ac.MaxTurns != nil {
		return *ac.MaxTurns
	}
	return r.MaxTurns
}

// SelectorModel resolves the selector's model.
func (r *Resolved) SelectorModel(definitionModel string) string {
	if r.Selector.Model != nil {
		return *r.Selector.Model
	}
	if definitionModel != "" {
		return definitionModel
	}
	return r.Model
}

// SelectorTimeout resolves the selector's timeout in seconds.
func (r *Resolved) SelectorTimeout() int {
	if r.Selector.Timeout != nil {
		return *r.Selector.Timeout
	}
	return r.Timeout
}

// SelectorMaxTurns resolves the selector's turn budget.
func (r *Resolved) SelectorMaxTurns() int {
	if r.Selector.MaxTurns != nil {
		return *r.Selector.MaxTurns
	}
	return r.MaxTurns
}

// AggregationModel resolves the aggregator's model.
func (r *Resolved) AggregationModel(definitionModel string) string {
	if r.Aggregation.Model != nil {
		return *r.Aggregation.Model
	}
	if definitionModel != "" {
		return definitionModel
	}
	return r.Model
}

// AggregationTimeout resolves the aggregator's timeout in seconds.
func (r *Resolved) AggregationTimeout() int {
	if r.Aggregation.Timeout != nil {
		return *r.Aggregation.Timeout
	}
	return r.Timeout
}

// AggregationMaxTurns resolves the aggregator's turn budget.
func (r *Resolved) AggregationMaxTurns() int {
	if r.Aggregation.MaxTurns != nil {
		return *r.Aggregation.MaxTurns
	}
	return r.MaxTurns
}

// LoadResult contains the loaded config and any warnings encountered.
type LoadResult struct {
	Config   *Config
	Warnings []string
}

// LoadWithWarnings reads .council/config.toml from the git repository root.
// Returns an empty config (not an error) if the file doesn't exist or the
// working directory is not inside a git repository.
func LoadWithWarnings() (*LoadResult, error) {
	repoRoot, err := git.GetRoot()
	if err != nil {
		return &LoadResult{Config: &Config{}}, nil
	}
	return LoadFromPathWithWarnings(filepath.Join(repoRoot, ConfigDirName, ConfigFileName))
}

// LoadFromPathWithWarnings reads a config file and returns warnings for
// unknown keys. Returns an empty config if the file doesn't exist; returns
// an error if the file exists but is invalid TOML or fails validation.
func LoadFromPathWithWarnings(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &LoadResult{Config: &Config{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}

	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unknown key %q in %s", key.String(), ConfigFileName))
	}
	sort.Strings(warnings)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}

	return &LoadResult{Config: &cfg, Warnings: warnings}, nil
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	if c.Timeout != nil && *c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %d", *c.Timeout)
	}
	if c.MaxTurns != nil && *c.MaxTurns <= 0 {
		return fmt.Errorf("max_turns must be > 0, got %d", *c.MaxTurns)
	}
	if c.BaseBranch != nil && *c.BaseBranch == "" {
		return fmt.Errorf("base_branch must not be empty")
	}
	if c.OutputFormat != nil && *c.OutputFormat != "markdown" && *c.OutputFormat != "json" {
		return fmt.Errorf("output_format must be markdown or json, got %q", *c.OutputFormat)
	}
	if c.MaxFilesPerReview != nil && *c.MaxFilesPerReview <= 0 {
		return fmt.Errorf("max_files_per_review must be > 0, got %d", *c.MaxFilesPerReview)
	}
	if err := validateOverride("selector", c.Selector.Timeout, c.Selector.MaxTurns); err != nil {
		return err
	}
	for _, cat := range c.Selector.AllowedTools {
		if !validToolCategory(cat) {
			return fmt.Errorf("selector: unknown tool category %q", cat)
		}
	}
	if err := validateOverride("aggregation", c.Aggregation.Timeout, c.Aggregation.MaxTurns); err != nil {
		return err
	}
	for name, ac := range c.Agents {
		if !agentNameRe.MatchString(name) {
			return fmt.Errorf("invalid agent name %q: must match %s", name, agentNameRe)
		}
		if err := validateOverride("agents."+name, ac.Timeout, ac.MaxTurns); err != nil {
			return err
		}
	}
	return nil
}

func validateOverride(section string, timeout, maxTurns *int) error {
	if timeout != nil && *timeout <= 0 {
		return fmt.Errorf("%s: timeout must be > 0, got %d", section, *timeout)
	}
	if maxTurns != nil && *maxTurns <= 0 {
		return fmt.Errorf("%s: max_turns must be > 0, got %d", section, *maxTurns)
	}
	return nil
}

func validToolCategory(name string) bool {
	for _, cat := range domain.AllToolCategories {
		if name == string(cat) {
			return true
		}
	}
	return false
}

// Resolve merges config file values over the built-in defaults.
func Resolve(cfg *Config) Resolved {
	result := Defaults
	if cfg == nil {
		return result
	}

	if cfg.Model != nil {
		result.Model = *cfg.Model
	}
	if cfg.Timeout != nil {
		result.Timeout = *cfg.Timeout
	}
	if cfg.MaxTurns != nil {
		result.MaxTurns = *cfg.MaxTurns
	}
	if cfg.Parallel != nil {
		result.Parallel = *cfg.Parallel
	}
	if cfg.BaseBranch != nil {
		result.BaseBranch = *cfg.BaseBranch
	}
	if cfg.OutputFormat != nil {
		result.OutputFormat = *cfg.OutputFormat
	}
	if cfg.SaveReviews != nil {
		result.SaveReviews = *cfg.SaveReviews
	}
	if cfg.ShowCost != nil {
		result.ShowCost = *cfg.ShowCost
	}
	if cfg.MaxFilesPerReview != nil {
		result.MaxFilesPerReview = *cfg.MaxFilesPerReview
	}
	if cfg.AgentsDir != nil {
		result.AgentsDir = *cfg.AgentsDir
	}
	if cfg.Aggregation.Enabled != nil {
		result.AggregationEnabled = *cfg.Aggregation.Enabled
	}

	result.Selector = cfg.Selector
	result.Aggregation = cfg.Aggregation
	result.Agents = cfg.Agents
	return result
}
