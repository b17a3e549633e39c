package mxprobe

import (
	"time"

	"github.com/optimode/mxprobe/types"
)

// Result is the outcome of one verification request. Status is the
// authoritative field; everything else is diagnostic.
type Result struct {
	Email        string          `json:"email"`
	Domain       string          `json:"domain"`
	Status       Status          `json:"status"`
	MXUsed       string          `json:"mx_used"`
	SMTPCode     int             `json:"smtp_code"`
	SMTPResponse string          `json:"smtp_response"`
	Error        string          `json:"error"`
	ErrorKind    types.ErrorKind `json:"error_kind,omitempty"`
	// Suggestion is a likely intended domain for invalid_domain results,
	// e.g. "gmail.com" for "gmial.com". Informational only.
	Suggestion string `json:"suggestion,omitempty"`
	ElapsedMs  int64  `json:"elapsed_ms"`
}

// Deliverable reports whether the exchanger accepted the mailbox.
// A catch_all result is not counted, since any address would have passed.
func (r Result) Deliverable() bool {
	return r.Status == StatusExists
}

// verdict collects whatever terminal fields a request produced before it
// is frozen into a Result.
type verdict struct {
	status   Status
	mx       string
	outcome  types.SMTPOutcome
	errClass types.ErrorClass
	errText  string
	suggest  string
}

// newResult assembles the final Result. status is always set by the caller.
func newResult(email, domain string, start time.Time, v verdict) Result {
	r := Result{
		Email:        email,
		Domain:       domain,
		Status:       v.status,
		MXUsed:       v.mx,
		SMTPCode:     v.outcome.Code,
		SMTPResponse: v.outcome.Text,
		Error:        v.errText,
		Suggestion:   v.suggest,
		ElapsedMs:    time.Since(start).Milliseconds(),
	}
	if r.Error == "" {
		r.Error = v.errClass.Message
	}
	if v.errClass.Kind != "" && v.errClass.Kind != types.KindUnknown {
		r.ErrorKind = v.errClass.Kind
	}
	return r
}
