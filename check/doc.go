// Package check contains the leaf components of the mxprobe engine:
// the syntactic gate, MX resolution, the single-host SMTP session,
// the error classifier and the provider heuristic table.
// These types can be used directly, but the recommended approach is
// to use the Prober from the github.com/optimode/mxprobe package.
package check
