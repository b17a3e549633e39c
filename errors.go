package mxprobe

import "errors"

// ErrInvalidOptions is returned by New when MailFrom or HeloDomain is missing
// or a limit is out of range.
var ErrInvalidOptions = errors.New("mxprobe: invalid options")
