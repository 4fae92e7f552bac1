package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Severity ranks how an issue is reported.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityOff:
		return "off"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a config value into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "off", "none":
		return SeverityOff, nil
	default:
		return SeverityError, fmt.Errorf("unknown severity %q", s)
	}
}

func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*s = parsed
	return nil
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ConfigCheck holds the per-check configuration.
type ConfigCheck struct {
	Severity Severity `yaml:"severity"`
}

// Issue is a case whose verified outcome differs from what the case file
// expects, or a case the engine could not run.
type Issue struct {
	Check    string
	Case     string
	Filename string
	Line     int
	Message  string
	Witness  string
	Note     string
	Severity Severity
}

// Expectations a case may declare.
const (
	ExpectHolds = "holds"
	ExpectFails = "fails"
)

// Case is one relation claim read from a case file. Elements are strings;
// which fields are required depends on Check.
type Case struct {
	Name   string            `yaml:"name"`
	Check  string            `yaml:"check"`
	Elem   string            `yaml:"elem,omitempty"`
	Seq    []string          `yaml:"seq,omitempty"`
	Left   []string          `yaml:"left,omitempty"`
	Right  []string          `yaml:"right,omitempty"`
	Merged []string          `yaml:"merged,omitempty"`
	Sub    []string          `yaml:"sub,omitempty"`
	Items  []string          `yaml:"items,omitempty"`
	Labels []string          `yaml:"labels,omitempty"`
	Assign map[string]string `yaml:"assign,omitempty"`
	Keep   []string          `yaml:"keep,omitempty"`
	Sides  []string          `yaml:"sides,omitempty"`
	Expect string            `yaml:"expect,omitempty"`

	// Line is the line of the case in its file; set by the decoder.
	Line int `yaml:"-"`
}

// WantHolds reports whether the case expects its relation to hold.
func (c Case) WantHolds() bool {
	return c.Expect != ExpectFails
}

// Outcome is the verified answer for a case.
type Outcome struct {
	Holds   bool
	Witness string
	Detail  string
}
