package ability

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goodsone/console/pkg/sdk"
)

// Cache reuses built abilities across requests that carry the same rule
// set. Keys are a digest of the sorted rules, so rule order does not matter.
type Cache struct {
	entries *lru.Cache[string, *Ability]
}

// NewCache creates a cache holding up to size rule sets.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[string, *Ability](size)
	if err != nil {
		return nil, fmt.Errorf("create ability cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Get returns the ability for rules, building it on a miss.
func (c *Cache) Get(rules []sdk.AbilityRule) (*Ability, error) {
	key := Digest(rules)
	if a, ok := c.entries.Get(key); ok {
		return a, nil
	}

	a, err := New(rules)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, a)
	return a, nil
}

// ForSession is the cached equivalent of FromSession.
func (c *Cache) ForSession(s *sdk.Session) (*Ability, error) {
	return c.Get(RulesFor(s))
}

// Len reports the number of cached rule sets.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Digest is a stable fingerprint of a rule set.
func Digest(rules []sdk.AbilityRule) string {
	kept := normalize(rules)
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Action != kept[j].Action {
			return kept[i].Action < kept[j].Action
		}
		return kept[i].Subject < kept[j].Subject
	})

	h := sha256.New()
	for _, r := range kept {
		// NUL cannot appear in either field of a sane rule
		fmt.Fprintf(h, "%s\x00%s\x00", r.Action, r.Subject)
	}
	return hex.EncodeToString(h.Sum(nil))
}
