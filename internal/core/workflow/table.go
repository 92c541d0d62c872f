// Package workflow contains the pure business logic for land record status changes.
// This is part of the Functional Core - no I/O, only pure functions.
package workflow

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_transitions.yaml
var defaultTransitions []byte

// AnyStatus as a rule's From matches every current status.
const AnyStatus = "*"

// Rule allows moving from one status to any of To, optionally only for Roles.
type Rule struct {
	From  string   `yaml:"from"`
	To    []string `yaml:"to"`
	Roles []string `yaml:"roles"`
}

// Table is the explicit set of allowed (current, new) status pairs.
type Table struct {
	Transitions []Rule `yaml:"transitions"`

	byFrom map[string][]Rule
}

// LoadTable parses a YAML transition table.
func LoadTable(r io.Reader) (*Table, error) {
	var t Table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to parse transition table: %w", err)
	}
	for i, rule := range t.Transitions {
		if rule.From == "" {
			return nil, fmt.Errorf("transition rule %d has no from status", i)
		}
		if len(rule.To) == 0 {
			return nil, fmt.Errorf("transition rule %d (%s) has no target statuses", i, rule.From)
		}
	}
	t.index()
	return &t, nil
}

// DefaultTable returns the embedded approval-chain table.
func DefaultTable() *Table {
	t, err := LoadTable(bytes.NewReader(defaultTransitions))
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) index() {
	t.byFrom = make(map[string][]Rule)
	for _, rule := range t.Transitions {
		t.byFrom[rule.From] = append(t.byFrom[rule.From], rule)
	}
}

// Targets lists every status reachable from current, regardless of role.
func (t *Table) Targets(current string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, rule := range t.rulesFor(current) {
		for _, to := range rule.To {
			if !seen[to] {
				seen[to] = true
				out = append(out, to)
			}
		}
	}
	return out
}

func (t *Table) rulesFor(current string) []Rule {
	if t.byFrom == nil {
		t.index()
	}
	rules := append([]Rule{}, t.byFrom[current]...)
	return append(rules, t.byFrom[AnyStatus]...)
}

// NormalizeRole folds role spellings like "Project Officer", "project_officer"
// and "projectofficer" together.
func NormalizeRole(role string) string {
	role = strings.ToLower(role)
	return strings.NewReplacer("_", "", " ", "", "\t", "").Replace(role)
}

// RoleFromActor derives a role from an actor id such as "mro-1".
func RoleFromActor(actor string) string {
	role, _, _ := strings.Cut(actor, "-")
	return NormalizeRole(role)
}

func (r Rule) allowsRole(role string) bool {
	if len(r.Roles) == 0 {
		return true
	}
	role = NormalizeRole(role)
	for _, allowed := range r.Roles {
		if NormalizeRole(allowed) == role {
			return true
		}
	}
	return false
}

func (r Rule) allowsTarget(status string) bool {
	for _, to := range r.To {
		if to == status {
			return true
		}
	}
	return false
}
