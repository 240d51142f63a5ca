// Package ability turns the session's permission rules into an immutable
// checker. Rules follow the CASL convention the frontend uses: an action on
// a subject, with "manage" matching any action and "all" matching any
// subject.
package ability

import (
	_ "embed"
	"fmt"
	"log"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/goodsone/console/pkg/sdk"
)

//go:embed model.conf
var modelContent string

const (
	ActionManage = "manage"
	SubjectAll   = "all"
)

// Capability is the permission a route requires.
type Capability struct {
	Action  string `json:"action,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// InitialRules apply to visitors without stored abilities: they may only
// reach the auth pages.
var InitialRules = []sdk.AbilityRule{{Action: "read", Subject: "Auth"}}

// Ability answers permission checks for one rule set. It is never mutated
// after New returns; a changed rule set means a new Ability.
type Ability struct {
	enforcer *casbin.SyncedEnforcer
	rules    []sdk.AbilityRule
}

// New builds an Ability from rules. Duplicate rules are collapsed and rules
// missing an action or subject are ignored.
func New(rules []sdk.AbilityRule) (*Ability, error) {
	m, err := model.NewModelFromString(modelContent)
	if err != nil {
		return nil, fmt.Errorf("parse ability model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create ability enforcer: %w", err)
	}

	kept := normalize(rules)
	for _, r := range kept {
		if _, err := enforcer.AddPolicy(r.Action, r.Subject); err != nil {
			return nil, fmt.Errorf("add rule %s/%s: %w", r.Action, r.Subject, err)
		}
	}

	return &Ability{enforcer: enforcer, rules: kept}, nil
}

// FromSession builds the ability of a session: its stored rules, or
// InitialRules when none are stored. A stored empty list grants nothing.
func FromSession(s *sdk.Session) (*Ability, error) {
	return New(RulesFor(s))
}

// RulesFor returns the rule set FromSession would use.
func RulesFor(s *sdk.Session) []sdk.AbilityRule {
	if s == nil || s.Abilities == nil {
		return InitialRules
	}
	return s.Abilities
}

// Can reports whether action on subject is allowed.
func (a *Ability) Can(action, subject string) bool {
	ok, err := a.enforcer.Enforce(action, subject)
	if err != nil {
		log.Printf("ability: enforce %s/%s: %v", action, subject, err)
		return false
	}
	return ok
}

// CanNavigate is true when at least one matched route record is allowed.
// A route without a capability needs the manage/all wildcards.
func (a *Ability) CanNavigate(matched []Capability) bool {
	for _, c := range matched {
		if a.Can(c.Action, c.Subject) {
			return true
		}
	}
	return false
}

// Rules returns a copy of the normalized rule set.
func (a *Ability) Rules() []sdk.AbilityRule {
	return append([]sdk.AbilityRule(nil), a.rules...)
}

func normalize(rules []sdk.AbilityRule) []sdk.AbilityRule {
	seen := make(map[sdk.AbilityRule]struct{}, len(rules))
	out := make([]sdk.AbilityRule, 0, len(rules))
	for _, r := range rules {
		if r.Action == "" || r.Subject == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
