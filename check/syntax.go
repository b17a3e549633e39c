package check

import (
	"errors"
	"fmt"

	"github.com/optimode/mxprobe/internal/parse"
)

// ErrInvalidSyntax is returned by Syntax for addresses rejected by the gate.
var ErrInvalidSyntax = errors.New("invalid email syntax")

// Syntax decomposes raw and applies the syntactic gate: exactly one "@",
// no whitespace, and a dot inside the domain part. No network activity
// happens here.
func Syntax(raw string) (parse.Email, error) {
	email := parse.NewEmail(raw)
	if email.Raw == "" {
		return email, fmt.Errorf("%w: empty address", ErrInvalidSyntax)
	}
	if !email.Valid {
		return email, ErrInvalidSyntax
	}
	return email, nil
}
