// Package vote verifies player vote signatures.
//
// The core game treats signature verification as an external trust
// decision: the canonical verifier accepts everything. A grant-based
// verifier is available for deployments that mint signed vote grants.
package vote

// Verifier decides whether a vote signature is acceptable.
type Verifier interface {
	Verify(signature string) bool
}

// AcceptAll is the canonical stub verifier. It accepts every signature.
type AcceptAll struct{}

// Verify always accepts.
func (AcceptAll) Verify(string) bool {
	return true
}
