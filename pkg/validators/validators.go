package validators

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MsgRequired               = "This field is required"
	MsgEmail                  = "The Email field must be a valid email"
	MsgPassword               = "Field must contain at least one uppercase, lowercase, special character and digit with min 8 chars"
	MsgConfirmed              = "The Confirm Password field confirmation does not match"
	MsgInteger                = "This field must be an integer"
	MsgRegex                  = "The Regex field format is invalid"
	MsgAlpha                  = "The Alpha field may only contain alphabetic characters, spaces, and & character"
	MsgURL                    = "URL is invalid"
	MsgAlphaDash              = "All Character are not valid"
	MsgAlphaDashWithoutNumber = "All Character and numbers are not valid"
	MsgCurrencyIndonesia      = "Invalid Indonesian currency format"
	MsgIntegerInvalid         = "Input must be a valid integer"
)

var (
	emailRE                  = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)
	integerRE                = regexp.MustCompile(`^-?[0-9]+$`)
	alphaRE                  = regexp.MustCompile(`(?i)^[A-Z&\s]*$`)
	urlRE                    = regexp.MustCompile(`^(https?://)?(www\.)?[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,5}\.?`)
	alphaDashRE              = regexp.MustCompile(`(?i)^[0-9A-Z_-]*$`)
	alphaDashWithoutNumberRE = regexp.MustCompile(`(?i)^[A-Z_-]*$`)
	currencyIndonesiaRE      = regexp.MustCompile(`^(\d{1,3}(?:\.\d{3})*(?:,\d{2})?)$`)
	spacedDigitsRE           = regexp.MustCompile(`^\s*[0-9]+\s*(?:[0-9]+\s*)*$`)
)

const passwordSpecials = "!@#$%&*()"

// idr formats amounts with Indonesian digit grouping (1.000.000,00).
var idr = message.NewPrinter(language.Indonesian)

// Required fails on nil, false, an empty list, and blank strings.
func Required(value any) Result {
	if value == nil {
		return Invalid(MsgRequired)
	}
	if b, ok := value.(bool); ok && !b {
		return Invalid(MsgRequired)
	}
	if items, ok := listItems(value); ok && len(items) == 0 {
		return Invalid(MsgRequired)
	}
	return fromBool(strings.TrimSpace(toString(value)) != "", MsgRequired)
}

func Email(value any) Result {
	if isEmpty(value) {
		return Valid
	}
	return every(value, func(v any) Result {
		return fromBool(emailRE.MatchString(toString(v)), MsgEmail)
	})
}

// Password requires at least eight characters with one digit, one
// lowercase letter, one uppercase letter, and one of !@#$%&*().
func Password(value any) Result {
	if isEmpty(value) {
		return Valid
	}
	return every(value, func(v any) Result {
		return fromBool(strongPassword(toString(v)), MsgPassword)
	})
}

func strongPassword(s string) bool {
	if utf8.RuneCountInString(s) < 8 {
		return false
	}
	var digit, lower, upper, special bool
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return digit && lower && upper && special
}

// Confirmed compares a confirmation field with its target.
func Confirmed(value, target any) Result {
	if isEmpty(value) {
		return Valid
	}
	return fromBool(toString(value) == toString(target), MsgConfirmed)
}

// Between checks min <= value <= max. It reports a bare false without a
// message, so callers usually pair it with their own wording.
func Between(value any, min, max float64) Result {
	if isEmpty(value) {
		return Valid
	}
	return every(value, func(v any) Result {
		n, ok := toNumber(v)
		return fromBool(ok && n >= min && n <= max, "")
	})
}

func StringLengthBetween(value any, min, max int) Result {
	if isEmpty(value) {
		return Valid
	}
	msg := fmt.Sprintf("Characters length must be between %d and %d characters", min, max)
	return every(value, func(v any) Result {
		n := utf8.RuneCountInString(toString(v))
		return fromBool(n >= min && n <= max, msg)
	})
}

func StringLengthMin(value any, min int) Result {
	if isEmpty(value) {
		return Valid
	}
	msg := fmt.Sprintf("Characters length must be between %d characters", min)
	return every(value, func(v any) Result {
		return fromBool(utf8.RuneCountInString(toString(v)) >= min, msg)
	})
}

func Integer(value any) Result {
	if isEmpty(value) {
		return Valid
	}
	return every(value, func(v any) Result {
		return fromBool(integerRE.MatchString(toString(v)), MsgInteger)
	})
}

// Regex matches the value against pattern, which is either a
// *regexp.Regexp or a string compiled on each call. A pattern that does not
// compile makes every non-empty value invalid.
func Regex(value any, pattern any) Result {
	if isEmpty(value) {
		return Valid
	}

	var re *regexp.Regexp
	switch p := pattern.(type) {
	case *regexp.Regexp:
		re = p
	case string:
		compiled, err := regexp.Compile(p)
		if err != nil {
			return Invalid(MsgRegex)
		}
		re = compiled
	default:
		return Invalid(MsgRegex)
	}

	return every(value, func(v any) Result {
		return fromBool(re.MatchString(toString(v)), MsgRegex)
	})
}

func Alpha(value any) Result {
	if isEmpty(value) {
		return Valid
	}
	return every(value, func(v any) Result {
		return fromBool(alphaRE.MatchString(toString(v)), MsgAlpha)
	})
}

func URL(value any) Result {
	if isEmpty(value) {
		return Valid
	}
	return every(value, func(v any) Result {
		return fromBool(urlRE.MatchString(toString(v)), MsgURL)
	})
}

// Length requires at least n characters.
func Length(value any, n int) Result {
	if isEmpty(value) {
		return Valid
	}
	msg := fmt.Sprintf("The Min Character field must be at least %d characters", n)
	return every(value, func(v any) Result {
		return fromBool(utf8.RuneCountInString(toString(v)) >= n, msg)
	})
}

func AlphaDash(value any) Result {
	if isEmpty(value) {
		return Valid
	}
	return every(value, func(v any) Result {
		return fromBool(alphaDashRE.MatchString(toString(v)), MsgAlphaDash)
	})
}

func AlphaDashWithoutNumber(value any) Result {
	if isEmpty(value) {
		return Valid
	}
	return every(value, func(v any) Result {
		return fromBool(alphaDashWithoutNumberRE.MatchString(toString(v)), MsgAlphaDashWithoutNumber)
	})
}

// CurrencyIndonesia accepts rupiah amounts written with dot grouping and an
// optional two-digit comma fraction: 10.000, 1.000.000, 2.500,50.
func CurrencyIndonesia(value any) Result {
	if isEmpty(value) {
		return Valid
	}
	return every(value, func(v any) Result {
		return fromBool(currencyIndonesiaRE.MatchString(toString(v)), MsgCurrencyIndonesia)
	})
}

// CurrencyIndonesiaBetween strips the grouping dots and checks the amount
// against [min, max].
func CurrencyIndonesiaBetween(value any, min, max float64) Result {
	if isEmpty(value) {
		return Valid
	}
	msg := fmt.Sprintf("Input limit must be between %s and %s limit", FormatRupiah(min), FormatRupiah(max))
	return every(value, func(v any) Result {
		n, ok := toNumber(strings.ReplaceAll(toString(v), ".", ""))
		return fromBool(ok && n >= min && n <= max, msg)
	})
}

// IntegerBetween checks that the value is made of digits (inner whitespace
// allowed) and that its trimmed length lies within [min, max].
func IntegerBetween(value any, min, max int) Result {
	if isEmpty(value) {
		return Valid
	}
	return every(value, func(v any) Result {
		s := toString(v)
		if !spacedDigitsRE.MatchString(s) {
			return Invalid(MsgIntegerInvalid)
		}
		n := utf8.RuneCountInString(strings.TrimFunc(s, unicode.IsSpace))
		return fromBool(n >= min && n <= max, fmt.Sprintf("Input must be between %d and %d", min, max))
	})
}

// FormatRupiah renders an amount the way the id-ID currency formatter does,
// e.g. "Rp\u00a01.500.000,00". The symbol is followed by a no-break space.
func FormatRupiah(amount float64) string {
	return "Rp\u00a0" + idr.Sprintf("%.2f", amount)
}
