package validators

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

var (
	// ErrUnknownRule is returned by Lookup for names it does not know.
	ErrUnknownRule = errors.New("unknown validation rule")
	// ErrInvalidParams is returned by Lookup when a rule's parameters are
	// missing or do not parse.
	ErrInvalidParams = errors.New("invalid rule parameters")
)

// Rule is a single-argument validator, the shape form libraries bind to a
// field.
type Rule func(value any) Result

// Apply runs rules in order and returns the first invalid result.
func Apply(value any, rules ...Rule) Result {
	for _, rule := range rules {
		if res := rule(value); !res.OK() {
			return res
		}
	}
	return Valid
}

type ruleFactory struct {
	arity int
	build func(params []string) (Rule, error)
}

var registry = map[string]ruleFactory{
	"required":                  {0, plain(Required)},
	"email":                     {0, plain(Email)},
	"password":                  {0, plain(Password)},
	"integer":                   {0, plain(Integer)},
	"alpha":                     {0, plain(Alpha)},
	"url":                       {0, plain(URL)},
	"alpha_dash":                {0, plain(AlphaDash)},
	"alpha_dash_without_number": {0, plain(AlphaDashWithoutNumber)},
	"currency_idr":              {0, plain(CurrencyIndonesia)},
	"confirmed": {1, func(p []string) (Rule, error) {
		target := p[0]
		return func(v any) Result { return Confirmed(v, target) }, nil
	}},
	"regex": {1, func(p []string) (Rule, error) {
		pattern := p[0]
		return func(v any) Result { return Regex(v, pattern) }, nil
	}},
	"between":               {2, floatPair(Between)},
	"currency_idr_between":  {2, floatPair(CurrencyIndonesiaBetween)},
	"string_length_between": {2, intPair(StringLengthBetween)},
	"integer_between":       {2, intPair(IntegerBetween)},
	"string_length_min": {1, func(p []string) (Rule, error) {
		n, err := strconv.Atoi(p[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidParams, p[0])
		}
		return func(v any) Result { return StringLengthMin(v, n) }, nil
	}},
	"length": {1, func(p []string) (Rule, error) {
		n, err := strconv.Atoi(p[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidParams, p[0])
		}
		return func(v any) Result { return Length(v, n) }, nil
	}},
}

// Lookup builds a rule from its snake_case name and string parameters,
// e.g. Lookup("between", "1", "10").
func Lookup(name string, params ...string) (Rule, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
	if len(params) != f.arity {
		return nil, fmt.Errorf("%w: %s takes %d parameter(s), got %d", ErrInvalidParams, name, f.arity, len(params))
	}
	return f.build(params)
}

// Names lists the rule names Lookup accepts, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func plain(r Rule) func([]string) (Rule, error) {
	return func([]string) (Rule, error) { return r, nil }
}

func floatPair(fn func(any, float64, float64) Result) func([]string) (Rule, error) {
	return func(p []string) (Rule, error) {
		lo, err := strconv.ParseFloat(p[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidParams, p[0])
		}
		hi, err := strconv.ParseFloat(p[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidParams, p[1])
		}
		return func(v any) Result { return fn(v, lo, hi) }, nil
	}
}

func intPair(fn func(any, int, int) Result) func([]string) (Rule, error) {
	return func(p []string) (Rule, error) {
		lo, err := strconv.Atoi(p[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidParams, p[0])
		}
		hi, err := strconv.Atoi(p[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidParams, p[1])
		}
		return func(v any) Result { return fn(v, lo, hi) }, nil
	}
}
