// Package mxprobe estimates whether a mailbox is deliverable without sending
// mail: it resolves the domain's MX records and runs a partial SMTP
// transaction (HELO, MAIL FROM, RCPT TO) against them, one at a time.
//
// Basic usage:
//
//	p, err := mxprobe.New(mxprobe.DefaultOptions("verify@myapp.com", "myapp.com"))
//	if err != nil {
//	    return err
//	}
//	result := p.Verify(ctx, "user@example.com")
//
// The result is a likelihood, not a guarantee. Many providers accept every
// recipient, greylist unknown senders, or drop probing clients on purpose;
// Status reports what the exchangers said, and catch_all and
// provider_blocks_verification exist to make that ambiguity explicit.
package mxprobe

import "github.com/optimode/mxprobe/types"

// Status is a re-export from the types package so that consumers
// don't need to import the types package directly.
type Status = types.Status

// ErrorKind is a re-export.
type ErrorKind = types.ErrorKind

// Status constants re-exported.
const (
	StatusInvalidSyntax  = types.StatusInvalidSyntax
	StatusInvalidDomain  = types.StatusInvalidDomain
	StatusExists         = types.StatusExists
	StatusDoesNotExist   = types.StatusDoesNotExist
	StatusCatchAll       = types.StatusCatchAll
	StatusProviderBlocks = types.StatusProviderBlocks
	StatusTempFail       = types.StatusTempFail
)
