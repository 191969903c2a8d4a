package models

import "time"

// TLSInfo summarizes the peer certificate presented during a probed
// exchange. Zero value means no TLS state was captured.
type TLSInfo struct {
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	NotAfter  time.Time `json:"not_after"`
	NotBefore time.Time `json:"not_before"`
}

// IsZero reports whether no certificate was captured.
func (t TLSInfo) IsZero() bool {
	return t.Subject == "" && t.Issuer == "" && t.NotAfter.IsZero()
}

// OFXResponse is the raw result of one protocol exchange: the response
// headers, the body exactly as received, and transport metadata.
type OFXResponse struct {
	// Headers holds the HTTP response headers, first value per name.
	Headers map[string]string

	// Text is the full raw response body.
	Text string

	// Status is the HTTP status code of the exchange.
	Status int

	// TLS describes the server certificate when the exchange used TLS.
	TLS TLSInfo
}
