// Package config loads the YAML manifest used by emitter hosts: which event
// names are deprecated (and what replaces them) and, for the demo binary, a
// scripted trigger scenario.
package config

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/billziss-gh/golib/shlex"
	"gopkg.in/yaml.v3"

	"github.com/emberlink/emitkit/emitter"
)

// Deprecation is one manifest entry. In YAML it is either the literal true
// (retired, no guidance) or a string naming the replacement event.
type Deprecation struct {
	Replacement string
}

// UnmarshalYAML decodes the bool-or-string union form.
func (d *Deprecation) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("deprecated entry must be true or a replacement string")
	}

	switch value.Tag {
	case "!!bool":
		var flagged bool
		if err := value.Decode(&flagged); err != nil {
			return err
		}
		if !flagged {
			return fmt.Errorf("deprecated entry must not be false, remove the key instead")
		}
		d.Replacement = ""
		return nil
	case "!!str":
		return value.Decode(&d.Replacement)
	default:
		return fmt.Errorf("deprecated entry must be true or a replacement string, got %s", value.Tag)
	}
}

// ScenarioStep is one scripted trigger: an event name followed by optional
// string arguments. In YAML it is a single line split with shell quoting
// rules so arguments can contain spaces.
type ScenarioStep struct {
	Event string
	Args  []string
}

func (s *ScenarioStep) UnmarshalYAML(value *yaml.Node) error {
	var line string
	if err := value.Decode(&line); err != nil {
		return err
	}

	step, err := ParseStep(line)
	if err != nil {
		return err
	}
	*s = step
	return nil
}

// ParseStep splits a scenario line into event name and arguments. Windows
// and POSIX quoting rules are selected by the runtime OS.
func ParseStep(line string) (ScenarioStep, error) {
	var parts []string
	if runtime.GOOS == "windows" {
		parts = shlex.Windows.Split(line)
	} else {
		parts = shlex.Posix.Split(line)
	}

	if len(parts) == 0 {
		return ScenarioStep{}, fmt.Errorf("empty scenario step")
	}
	return ScenarioStep{Event: parts[0], Args: parts[1:]}, nil
}

type Config struct {
	Deprecated map[string]Deprecation `yaml:"deprecated"`
	Scenario   []ScenarioStep         `yaml:"scenario"`
}

// LoadConfig reads and validates a manifest file.
func LoadConfig(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader reads and validates a manifest.
func LoadConfigFromReader(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	for name := range cfg.Deprecated {
		if err := validateEventName(name); err != nil {
			return Config{}, err
		}
	}
	for _, step := range cfg.Scenario {
		if err := validateEventName(step.Event); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func validateEventName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("event name must not be empty")
	case strings.ContainsAny(name, " \t\r\n"):
		return fmt.Errorf("event name '%s' must not contain whitespace", name)
	case strings.Contains(name, "."):
		// On strips the namespace before consulting the deprecation table,
		// so a dotted key could never match anything
		return fmt.Errorf("event name '%s' must not contain a dot", name)
	}
	return nil
}

// ApplyTo marks every deprecated event from the manifest on host.
func (c Config) ApplyTo(host any) {
	for name, dep := range c.Deprecated {
		if dep.Replacement == "" {
			emitter.Deprecate(host, name)
		} else {
			emitter.DeprecateWithReplacement(host, name, dep.Replacement)
		}
	}
}
