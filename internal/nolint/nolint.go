package nolint

import (
	"fmt"
	"strings"
)

const nolintPrefix = "nolint"

// Manager tracks nolint comments of one case file and answers whether an
// issue on a case is suppressed.
type Manager struct {
	// file holds scopes that apply to every case.
	file []nolintScope
	// scopes maps the line of a case to its nolint scopes.
	scopes map[int][]nolintScope
}

// nolintScope names the checks a comment silences. Empty means all.
type nolintScope struct {
	rules map[string]struct{}
}

func NewManager() *Manager {
	return &Manager{scopes: make(map[int][]nolintScope)}
}

// AddFileComment registers comment text that precedes every case.
func (m *Manager) AddFileComment(comment string) {
	m.file = append(m.file, parseComments(comment)...)
}

// AddCaseComment registers comment text attached to the case at line.
func (m *Manager) AddCaseComment(line int, comment string) {
	if scopes := parseComments(comment); len(scopes) > 0 {
		m.scopes[line] = append(m.scopes[line], scopes...)
	}
}

// parseComments parses every line of a YAML comment block, ignoring lines
// that are not valid nolint comments.
func parseComments(comment string) []nolintScope {
	var scopes []nolintScope
	for _, line := range strings.Split(comment, "\n") {
		ns, err := parseComment(line)
		if err != nil {
			continue
		}
		scopes = append(scopes, ns)
	}
	return scopes
}

// parseComment parses a single "# nolint" or "# nolint:a,b" comment line.
func parseComment(line string) (nolintScope, error) {
	var ns nolintScope
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#"))

	if !strings.HasPrefix(text, nolintPrefix) {
		return ns, fmt.Errorf("invalid nolint comment")
	}
	rest := text[len(nolintPrefix):]

	// A nolint comment can either have a list of checks after a colon (:)
	// or if no checks are specified, it applies to all checks
	if len(rest) > 0 && rest[0] != ':' {
		return ns, fmt.Errorf("invalid nolint comment format")
	}
	if len(rest) > 0 {
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return ns, fmt.Errorf("invalid nolint comment: no checks specified after colon")
		}
	}

	ns.rules = parseIgnoreRuleNames(rest)
	return ns, nil
}

// parseIgnoreRuleNames parses the check list from the nolint comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

func (ns nolintScope) covers(rule string) bool {
	if len(ns.rules) == 0 {
		return true
	}
	_, exists := ns.rules[rule]
	return exists
}

// IsNolint checks if issues of the given check on the case at line are
// suppressed. A nil Manager suppresses nothing.
func (m *Manager) IsNolint(line int, rule string) bool {
	if m == nil {
		return false
	}
	for _, ns := range m.file {
		if ns.covers(rule) {
			return true
		}
	}
	for _, ns := range m.scopes[line] {
		if ns.covers(rule) {
			return true
		}
	}
	return false
}
