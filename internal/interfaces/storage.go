// Package interfaces defines service contracts for ofxpostern
package interfaces

import (
	"github.com/BarakBinyamin/ofxpostern/internal/models"
)

// CacheStore persists the raw artifacts of protocol exchanges, one
// directory per server identity. Entries exist for audit and debugging;
// a later session silently replaces the prior entry.
type CacheStore interface {
	// EnsureLayout idempotently creates the data root, the institution
	// cache root, and the per-identity directory. Failure is fatal to
	// the session; no network activity may follow it.
	EnsureLayout(identity models.ServerIdentity) (string, error)

	// Write persists the headers and body of one exchange under the
	// normalized request name, unconditionally overwriting any prior
	// entry for the same identity and request name.
	Write(identity models.ServerIdentity, requestName string, headers map[string]string, body string) error

	// ReadBody returns the cached raw body for the request name,
	// byte-identical to what was written.
	ReadBody(identity models.ServerIdentity, requestName string) (string, error)

	// ReadHeaders returns the cached headers for the request name.
	ReadHeaders(identity models.ServerIdentity, requestName string) (map[string]string, error)
}
