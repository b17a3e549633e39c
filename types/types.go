// Package types contains the shared vocabulary of mxprobe.
// This package does not import anything from other mxprobe packages
// to avoid circular imports.
package types

// Status is the final verdict of a verification request.
// The set of values is a stable public contract.
type Status = string

const (
	StatusInvalidSyntax  Status = "invalid_syntax"
	StatusInvalidDomain  Status = "invalid_domain"
	StatusExists         Status = "exists"
	StatusDoesNotExist   Status = "does_not_exist"
	StatusCatchAll       Status = "catch_all"
	StatusProviderBlocks Status = "provider_blocks_verification"
	StatusTempFail       Status = "temp_fail"
)

// SMTPStatus is the interpretation of a single RCPT TO reply.
type SMTPStatus = string

const (
	SMTPExists       SMTPStatus = "exists"
	SMTPDoesNotExist SMTPStatus = "does_not_exist"
	SMTPTempFail     SMTPStatus = "temp_fail"
)

// ErrorKind identifies the class of a fault raised during resolution or probing.
type ErrorKind = string

const (
	KindTimeout  ErrorKind = "timeout"
	KindRefused  ErrorKind = "refused"
	KindDNS      ErrorKind = "dns"
	KindTLS      ErrorKind = "tls"
	KindGreeting ErrorKind = "greeting"
	KindTemp     ErrorKind = "temp"
	KindNetwork  ErrorKind = "network"
	KindOther    ErrorKind = "other"
	KindUnknown  ErrorKind = "unknown"
)

// SMTPOutcome is the result of one session attempt against one exchanger.
type SMTPOutcome struct {
	Status SMTPStatus `json:"status"`
	Code   int        `json:"code"`
	Text   string     `json:"text,omitempty"`
	// Malformed is set when the RCPT reply code could not be parsed.
	// Such replies are reported as temp_fail, same as a 4xx.
	Malformed bool `json:"malformed,omitempty"`
}

// ErrorClass is the classification of a fault.
type ErrorClass struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message,omitempty"`
}

// MXCandidate is one resolved mail exchanger.
type MXCandidate struct {
	Host     string `json:"host"`
	Priority uint16 `json:"priority"`
}
