// Package validators holds the form-field rules shared by the console
// gateway and the CLI. Every rule is a pure function from a value to a
// Result; invalid input is reported through the Result, never through an
// error or a panic.
package validators

import "encoding/json"

// Result is either Valid or Invalid(message). An invalid result with an
// empty message stands for a bare "false" (see Between).
type Result struct {
	invalid bool
	message string
}

// Valid is the result of a value that satisfies a rule.
var Valid = Result{}

// Invalid builds a failing result carrying a user-facing message.
func Invalid(message string) Result {
	return Result{invalid: true, message: message}
}

// OK reports whether the value satisfied the rule.
func (r Result) OK() bool {
	return !r.invalid
}

// Message returns the user-facing message of an invalid result.
func (r Result) Message() string {
	return r.message
}

func (r Result) String() string {
	switch {
	case !r.invalid:
		return "true"
	case r.message == "":
		return "false"
	default:
		return r.message
	}
}

// MarshalJSON encodes the result the way form libraries expect it:
// true, false, or the message string.
func (r Result) MarshalJSON() ([]byte, error) {
	switch {
	case !r.invalid:
		return []byte("true"), nil
	case r.message == "":
		return []byte("false"), nil
	default:
		return json.Marshal(r.message)
	}
}

// UnmarshalJSON accepts true, false, or a message string.
func (r *Result) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*r = Valid
		} else {
			*r = Invalid("")
		}
		return nil
	}

	var msg string
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	*r = Invalid(msg)
	return nil
}

// fromBool maps a predicate outcome to a Result with the given message.
func fromBool(ok bool, message string) Result {
	if ok {
		return Valid
	}
	return Invalid(message)
}
