package agentdef

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/richhaase/council/internal/domain"
)

//go:embed builtin/*.toml
var builtinFS embed.FS

// LoadResult separates successfully loaded definitions from the files that
// failed to load, so the caller decides how to surface the errors.
type LoadResult struct {
	Agents []AgentDefinition
	Errors []domain.LoadError
}

func decodeAgent(data []byte) (AgentDefinition, error) {
	var def AgentDefinition
	if _, err := toml.Decode(string(data), &def); err != nil {
		return AgentDefinition{}, err
	}
	if err := def.Validate(); err != nil {
		return AgentDefinition{}, err
	}
	return def, nil
}

// LoadBuiltin loads the embedded default agent roster. Per-file errors are
// collected, not raised; a broken embedded file should never take the whole
// roster down.
func LoadBuiltin() LoadResult {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return LoadResult{Errors: []domain.LoadError{{
			Source:  "builtin",
			Message: err.Error(),
		}}}
	}

	var result LoadResult
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".toml") || isReservedFile(name) {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/" + name)
		if err != nil {
			result.Errors = append(result.Errors, domain.LoadError{Source: name, Message: err.Error()})
			continue
		}
		def, err := decodeAgent(data)
		if err != nil {
			result.Errors = append(result.Errors, domain.LoadError{Source: name, Message: err.Error()})
			continue
		}
		result.Agents = append(result.Agents, def)
	}
	return result
}

// LoadDir loads custom agent definitions from dir. A missing directory is
// not an error; the built-in roster alone is a valid setup.
func LoadDir(dir string) LoadResult {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return LoadResult{}
		}
		return LoadResult{Errors: []domain.LoadError{{
			Source:  dir,
			Message: err.Error(),
		}}}
	}

	var result LoadResult
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".toml") || isReservedFile(name) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			result.Errors = append(result.Errors, domain.LoadError{Source: name, Message: err.Error()})
			continue
		}
		def, err := decodeAgent(data)
		if err != nil {
			result.Errors = append(result.Errors, domain.LoadError{Source: name, Message: err.Error()})
			continue
		}
		result.Agents = append(result.Agents, def)
	}
	return result
}

// Load merges built-in and custom definitions. A valid custom definition
// with the same name as a built-in replaces it; an invalid custom file is
// recorded as an error and the built-in stays in force. The merged list is
// sorted by name for deterministic downstream iteration.
func Load(customDir string) LoadResult {
	builtin := LoadBuiltin()

	merged := make(map[string]AgentDefinition, len(builtin.Agents))
	for _, def := range builtin.Agents {
		merged[def.Name] = def
	}
	errs := builtin.Errors

	if customDir != "" {
		custom := LoadDir(customDir)
		for _, def := range custom.Agents {
			merged[def.Name] = def
		}
		errs = append(errs, custom.Errors...)
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	agents := make([]AgentDefinition, 0, len(merged))
	for _, name := range names {
		agents = append(agents, merged[name])
	}
	return LoadResult{Agents: agents, Errors: errs}
}

// Reserved file names hold the selector and aggregator definitions, which
// have a different shape from reviewer agents.
const (
	selectorFile   = "selector.toml"
	aggregatorFile = "aggregator.toml"
)

func isReservedFile(name string) bool {
	return name == selectorFile || name == aggregatorFile
}

// LoadSelector returns the selector definition, preferring a custom
// selector.toml in customDir over the embedded default. Selector load
// failure is fatal: no review can proceed without a working selector.
func LoadSelector(customDir string) (SelectorDefinition, error) {
	if customDir != "" {
		path := filepath.Join(customDir, selectorFile)
		if data, err := os.ReadFile(path); err == nil {
			return decodeSelector(data, path)
		} else if !os.IsNotExist(err) {
			return SelectorDefinition{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	data, err := builtinFS.ReadFile("builtin/" + selectorFile)
	if err != nil {
		return SelectorDefinition{}, fmt.Errorf("reading built-in selector: %w", err)
	}
	return decodeSelector(data, "builtin/"+selectorFile)
}

func decodeSelector(data []byte, source string) (SelectorDefinition, error) {
	var def SelectorDefinition
	if _, err := toml.Decode(string(data), &def); err != nil {
		return SelectorDefinition{}, fmt.Errorf("parsing %s: %w", source, err)
	}
	if err := def.Validate(); err != nil {
		return SelectorDefinition{}, fmt.Errorf("validating %s: %w", source, err)
	}
	return def, nil
}

// LoadAggregator returns the aggregator definition, preferring a custom
// aggregator.toml over the embedded default.
func LoadAggregator(customDir string) (AggregatorDefinition, error) {
	if customDir != "" {
		path := filepath.Join(customDir, aggregatorFile)
		if data, err := os.ReadFile(path); err == nil {
			return decodeAggregator(data, path)
		} else if !os.IsNotExist(err) {
			return AggregatorDefinition{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	data, err := builtinFS.ReadFile("builtin/" + aggregatorFile)
	if err != nil {
		return AggregatorDefinition{}, fmt.Errorf("reading built-in aggregator: %w", err)
	}
	return decodeAggregator(data, "builtin/"+aggregatorFile)
}

func decodeAggregator(data []byte, source string) (AggregatorDefinition, error) {
	var def AggregatorDefinition
	if _, err := toml.Decode(string(data), &def); err != nil {
		return AggregatorDefinition{}, fmt.Errorf("parsing %s: %w", source, err)
	}
	if err := def.Validate(); err != nil {
		return AggregatorDefinition{}, fmt.Errorf("validating %s: %w", source, err)
	}
	return def, nil
}
