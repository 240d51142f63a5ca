package validators

import (
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	tests := []struct {
		name  string
		value any
		ok    bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"blank string", "   ", false},
		{"text", "x", true},
		{"zero", 0, true},
		{"empty slice", []string{}, false},
		{"slice", []string{"a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Required(tt.value)
			assert.Equal(t, tt.ok, res.OK())
			if !tt.ok {
				assert.Equal(t, MsgRequired, res.Message())
			}
		})
	}
}

func TestEmptyInputIsValid(t *testing.T) {
	rules := map[string]Rule{
		"email":           Email,
		"password":        Password,
		"integer":         Integer,
		"alpha":           Alpha,
		"url":             URL,
		"alpha_dash":      AlphaDash,
		"currency_idr":    CurrencyIndonesia,
		"between":         func(v any) Result { return Between(v, 1, 10) },
		"confirmed":       func(v any) Result { return Confirmed(v, "secret") },
		"integer_between": func(v any) Result { return IntegerBetween(v, 3, 5) },
		"length":          func(v any) Result { return Length(v, 4) },
		"regex":           func(v any) Result { return Regex(v, `^a+$`) },
	}

	for name, rule := range rules {
		for _, empty := range []any{nil, "", []string{}} {
			assert.True(t, rule(empty).OK(), "%s(%#v)", name, empty)
		}
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, Valid, Email("a@b.com"))
	assert.Equal(t, Valid, Email("first.last@sub.example.co.id"))
	assert.Equal(t, Invalid(MsgEmail), Email("not-an-email"))
	assert.Equal(t, Invalid(MsgEmail), Email("a@b"))

	assert.True(t, Email([]string{"a@b.com", "c@d.org"}).OK())
	assert.Equal(t, Invalid(MsgEmail), Email([]string{"a@b.com", "nope"}))
}

func TestPassword(t *testing.T) {
	assert.True(t, Password("Passw0rd!").OK())
	assert.True(t, Password("(Abcdef1)").OK())

	for _, weak := range []string{"Pa0!", "password1!", "PASSWORD1!", "Password!!", "Password12", "Passw0rd?"} {
		assert.Equal(t, Invalid(MsgPassword), Password(weak), weak)
	}
}

func TestConfirmed(t *testing.T) {
	assert.True(t, Confirmed("secret", "secret").OK())
	assert.Equal(t, Invalid(MsgConfirmed), Confirmed("secret", "Secret"))
}

func TestBetween(t *testing.T) {
	assert.True(t, Between(5, 1, 10).OK())
	assert.True(t, Between(1, 1, 10).OK())
	assert.True(t, Between("10", 1, 10).OK())
	assert.True(t, Between([]int{2, 3}, 1, 10).OK())

	res := Between(15, 1, 10)
	assert.False(t, res.OK())
	assert.Equal(t, "", res.Message())
	assert.Equal(t, "false", res.String())

	assert.False(t, Between("abc", 1, 10).OK())
	assert.False(t, Between([]int{2, 30}, 1, 10).OK())
}

func TestStringLength(t *testing.T) {
	assert.True(t, StringLengthBetween("abcd", 2, 4).OK())
	assert.Equal(t,
		Invalid("Characters length must be between 2 and 4 characters"),
		StringLengthBetween("abcde", 2, 4))

	assert.True(t, StringLengthMin("héllo", 5).OK())
	assert.Equal(t,
		Invalid("Characters length must be between 6 characters"),
		StringLengthMin("héllo", 6))

	assert.True(t, Length("abc", 3).OK())
	assert.Equal(t,
		Invalid("The Min Character field must be at least 4 characters"),
		Length("abc", 4))
}

func TestInteger(t *testing.T) {
	assert.True(t, Integer("42").OK())
	assert.True(t, Integer("-7").OK())
	assert.True(t, Integer(12).OK())
	assert.Equal(t, Invalid(MsgInteger), Integer("4.2"))
	assert.Equal(t, Invalid(MsgInteger), Integer("abc"))
}

func TestRegex(t *testing.T) {
	assert.True(t, Regex("aaa", `^a+$`).OK())
	assert.True(t, Regex("aaa", regexp.MustCompile(`^a+$`)).OK())
	assert.Equal(t, Invalid(MsgRegex), Regex("aab", `^a+$`))

	assert.NotPanics(t, func() {
		assert.Equal(t, Invalid(MsgRegex), Regex("abc", `([`))
	})
	assert.Equal(t, Invalid(MsgRegex), Regex("abc", 42))
}

func TestCharacterClasses(t *testing.T) {
	assert.True(t, Alpha("Tom & Jerry").OK())
	assert.Equal(t, Invalid(MsgAlpha), Alpha("R2D2"))

	assert.True(t, AlphaDash("sku_12-a").OK())
	assert.Equal(t, Invalid(MsgAlphaDash), AlphaDash("sku 12"))

	assert.True(t, AlphaDashWithoutNumber("snake_case-name").OK())
	assert.Equal(t, Invalid(MsgAlphaDashWithoutNumber), AlphaDashWithoutNumber("name1"))
}

func TestURL(t *testing.T) {
	for _, u := range []string{"https://goodsone.id", "www.example.com", "example.co.id/path"} {
		assert.True(t, URL(u).OK(), u)
	}
	assert.Equal(t, Invalid(MsgURL), URL("localhost"))
}

func TestCurrencyIndonesia(t *testing.T) {
	for _, v := range []string{"100", "10.000", "1.000.000", "10.000,50"} {
		assert.True(t, CurrencyIndonesia(v).OK(), v)
	}
	for _, v := range []string{"1000.000", "10,5", "10.00", "Rp 10.000"} {
		assert.Equal(t, Invalid(MsgCurrencyIndonesia), CurrencyIndonesia(v), v)
	}
}

func TestCurrencyIndonesiaBetween(t *testing.T) {
	assert.True(t, CurrencyIndonesiaBetween("10.000", 1000, 50000).OK())

	res := CurrencyIndonesiaBetween("100.000", 1000, 50000)
	require.False(t, res.OK())
	assert.Equal(t, "Input limit must be between "+FormatRupiah(1000)+" and "+FormatRupiah(50000)+" limit", res.Message())
	assert.Contains(t, res.Message(), "Rp\u00a01.000,00")
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp\u00a01.500.000,00", FormatRupiah(1500000))
	assert.Equal(t, "Rp\u00a00,50", FormatRupiah(0.5))
}

func TestIntegerBetween(t *testing.T) {
	assert.True(t, IntegerBetween("1234", 3, 5).OK())
	assert.True(t, IntegerBetween(" 123 ", 3, 5).OK())
	assert.Equal(t, Invalid(MsgIntegerInvalid), IntegerBetween("12a", 3, 5))
	assert.Equal(t, Invalid("Input must be between 3 and 5"), IntegerBetween("12", 3, 5))
	assert.Equal(t, Invalid("Input must be between 3 and 5"), IntegerBetween("123456", 3, 5))
}

func TestApply(t *testing.T) {
	assert.Equal(t, Invalid(MsgRequired), Apply("", Required, Email))
	assert.Equal(t, Invalid(MsgEmail), Apply("nope", Required, Email))
	assert.Equal(t, Valid, Apply("a@b.com", Required, Email))
	assert.Equal(t, Valid, Apply("anything"))
}

func TestLookup(t *testing.T) {
	rule, err := Lookup("between", "1", "10")
	require.NoError(t, err)
	assert.True(t, rule("5").OK())
	assert.False(t, rule("11").OK())

	rule, err = Lookup("string_length_between", "2", "3")
	require.NoError(t, err)
	assert.False(t, rule("abcd").OK())

	rule, err = Lookup("confirmed", "secret")
	require.NoError(t, err)
	assert.Equal(t, Invalid(MsgConfirmed), rule("other"))

	_, err = Lookup("nope")
	assert.True(t, errors.Is(err, ErrUnknownRule))

	_, err = Lookup("between", "1")
	assert.True(t, errors.Is(err, ErrInvalidParams))

	_, err = Lookup("length", "four")
	assert.True(t, errors.Is(err, ErrInvalidParams))

	assert.Contains(t, Names(), "currency_idr_between")
	assert.IsNonDecreasing(t, Names())
}

func TestResultJSON(t *testing.T) {
	out, err := json.Marshal([]Result{Valid, Invalid(""), Invalid("bad")})
	require.NoError(t, err)
	assert.JSONEq(t, `[true, false, "bad"]`, string(out))

	var back []Result
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, []Result{Valid, Invalid(""), Invalid("bad")}, back)
}

func TestJoinMessages(t *testing.T) {
	got := JoinMessages(map[string][]string{
		"name":  {"too short", "required"},
		"email": {"taken"},
		"zip":   {},
	})
	assert.Equal(t, "taken too short required", got)
	assert.Equal(t, "", JoinMessages(nil))
}
