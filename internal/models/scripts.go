package models

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScriptDir is where named policy scripts are looked up.
var ScriptDir = "scenarios"

// PolicyScript is a scripted sequence of quarterly policies.
type PolicyScript struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Turns       []PolicyInput `yaml:"turns"`
}

// Policy returns the policy for the given zero-based turn. Past the end of
// the script the last entry repeats; an empty script yields the neutral policy.
func (s *PolicyScript) Policy(turn int) PolicyInput {
	if len(s.Turns) == 0 {
		return PolicyInput{}
	}
	if turn >= len(s.Turns) {
		return s.Turns[len(s.Turns)-1]
	}
	return s.Turns[turn]
}

// Validate checks every scripted policy.
func (s *PolicyScript) Validate() error {
	for i, p := range s.Turns {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("turn %d: %w", i+1, err)
		}
	}
	return nil
}

// ParseScript decodes a policy script from YAML.
func ParseScript(data []byte) (*PolicyScript, error) {
	var script PolicyScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse policy script: %w", err)
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

// LoadScript reads a policy script. A bare name is resolved inside ScriptDir.
func LoadScript(name string) (*PolicyScript, error) {
	path := name
	if !strings.ContainsRune(name, filepath.Separator) && filepath.Ext(name) == "" {
		path = filepath.Join(ScriptDir, name+".yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	script, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if script.Name == "" {
		script.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return script, nil
}

func ListScripts() ([]string, error) {
	if _, err := os.Stat(ScriptDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(ScriptDir)
	if err != nil {
		return nil, err
	}

	var scripts []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		scripts = append(scripts, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(scripts)
	return scripts, nil
}

// TurnRecord is one played quarter in a run report.
type TurnRecord struct {
	Policy     PolicyInput   `yaml:"policy"`
	State      EconomicState `yaml:"state"`
	Iterations int           `yaml:"solver_iterations"`
	Converged  bool          `yaml:"solver_converged"`
	Commentary string        `yaml:"commentary,omitempty"`
}

// RunReport summarises a headless run.
type RunReport struct {
	RunID   string        `yaml:"run_id"`
	Script  string        `yaml:"script"`
	Seed    EconomicState `yaml:"seed"`
	Turns   []TurnRecord  `yaml:"turns"`
	Reason  string        `yaml:"reason"`
	Rank    string        `yaml:"rank"`
	Title   string        `yaml:"title"`
	Summary string        `yaml:"summary"`
}

// WriteReport encodes the report as YAML.
func (r *RunReport) WriteReport(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
