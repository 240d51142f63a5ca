package ability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodsone/console/pkg/sdk"
)

func TestInitialAbility(t *testing.T) {
	a, err := FromSession(&sdk.Session{})
	require.NoError(t, err)

	assert.True(t, a.Can("read", "Auth"))
	assert.False(t, a.Can("read", "Leads"))
	assert.False(t, a.Can("manage", "Auth"))
	assert.Equal(t, InitialRules, a.Rules())
}

func TestFromNilSession(t *testing.T) {
	a, err := FromSession(nil)
	require.NoError(t, err)
	assert.True(t, a.Can("read", "Auth"))
}

func TestStoredRulesReplaceInitial(t *testing.T) {
	a, err := FromSession(&sdk.Session{Abilities: []sdk.AbilityRule{{Action: "read", Subject: "Leads"}}})
	require.NoError(t, err)

	assert.True(t, a.Can("read", "Leads"))
	assert.False(t, a.Can("read", "Auth"), "stored rules replace the defaults wholesale")
	assert.False(t, a.Can("update", "Leads"))
}

func TestStoredEmptyRulesGrantNothing(t *testing.T) {
	s := &sdk.Session{Abilities: []sdk.AbilityRule{}}
	assert.Empty(t, RulesFor(s))

	a, err := FromSession(s)
	require.NoError(t, err)
	assert.False(t, a.Can("read", "Auth"))
	assert.False(t, a.Can("read", "Leads"))
}

func TestWildcards(t *testing.T) {
	tests := []struct {
		name    string
		rules   []sdk.AbilityRule
		action  string
		subject string
		want    bool
	}{
		{"manage all", []sdk.AbilityRule{{Action: "manage", Subject: "all"}}, "delete", "Vendors", true},
		{"manage subject", []sdk.AbilityRule{{Action: "manage", Subject: "Vendors"}}, "update", "Vendors", true},
		{"manage subject other", []sdk.AbilityRule{{Action: "manage", Subject: "Vendors"}}, "update", "Leads", false},
		{"action all", []sdk.AbilityRule{{Action: "read", Subject: "all"}}, "read", "Payroll", true},
		{"action all other action", []sdk.AbilityRule{{Action: "read", Subject: "all"}}, "create", "Payroll", false},
		{"manage is not implied by read", []sdk.AbilityRule{{Action: "read", Subject: "Leads"}}, "manage", "Leads", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.rules)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Can(tt.action, tt.subject))
		})
	}
}

func TestCanNavigate(t *testing.T) {
	a, err := New([]sdk.AbilityRule{{Action: "read", Subject: "Leads"}})
	require.NoError(t, err)

	assert.True(t, a.CanNavigate([]Capability{{"read", "Dashboard"}, {"read", "Leads"}}), "any matched record suffices")
	assert.False(t, a.CanNavigate([]Capability{{"read", "Dashboard"}}))
	assert.False(t, a.CanNavigate(nil))
	assert.False(t, a.CanNavigate([]Capability{{}}), "empty capability needs wildcards")

	admin, err := New([]sdk.AbilityRule{{Action: "manage", Subject: "all"}})
	require.NoError(t, err)
	assert.True(t, admin.CanNavigate([]Capability{{}}))
}

func TestNormalize(t *testing.T) {
	a, err := New([]sdk.AbilityRule{
		{Action: "read", Subject: "Leads"},
		{Action: "read", Subject: "Leads"},
		{Action: "", Subject: "Leads"},
		{Action: "read"},
	})
	require.NoError(t, err)
	assert.Equal(t, []sdk.AbilityRule{{Action: "read", Subject: "Leads"}}, a.Rules())
}

func TestCache(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)

	first, err := c.Get([]sdk.AbilityRule{{Action: "read", Subject: "Leads"}, {Action: "read", Subject: "Vendors"}})
	require.NoError(t, err)
	second, err := c.Get([]sdk.AbilityRule{{Action: "read", Subject: "Vendors"}, {Action: "read", Subject: "Leads"}})
	require.NoError(t, err)
	assert.Same(t, first, second, "rule order does not change the key")

	initial, err := c.ForSession(nil)
	require.NoError(t, err)
	assert.True(t, initial.Can("read", "Auth"))
	assert.Equal(t, 2, c.Len())

	_, err = c.Get([]sdk.AbilityRule{{Action: "manage", Subject: "all"}})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len(), "bounded by size")

	_, err = NewCache(0)
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	assert.Equal(t,
		Digest([]sdk.AbilityRule{{Action: "a", Subject: "b"}, {Action: "c", Subject: "d"}}),
		Digest([]sdk.AbilityRule{{Action: "c", Subject: "d"}, {Action: "a", Subject: "b"}, {Action: "a", Subject: "b"}}))
	assert.NotEqual(t,
		Digest([]sdk.AbilityRule{{Action: "ab", Subject: "c"}}),
		Digest([]sdk.AbilityRule{{Action: "a", Subject: "bc"}}))
}
