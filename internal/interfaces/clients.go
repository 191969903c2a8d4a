// Package interfaces defines service contracts for ofxpostern
package interfaces

import (
	"context"

	"github.com/BarakBinyamin/ofxpostern/internal/models"
)

// OFXClient sends named protocol requests against a server identity.
// Implementations block until the exchange completes or fails; callers do
// not retry, so a single transport failure aborts the session.
type OFXClient interface {
	// SendRequest issues the named request against the identity and
	// returns the raw response.
	SendRequest(ctx context.Context, requestName string, identity models.ServerIdentity) (*models.OFXResponse, error)
}
