package models

// Well-known section keys exposed by parsed profile responses.
const (
	KeyFID        = "FID"
	KeyOrg        = "ORG"
	KeyFIName     = "FINAME"
	KeyAddr1      = "ADDR1"
	KeyAddr2      = "ADDR2"
	KeyAddr3      = "ADDR3"
	KeyCity       = "CITY"
	KeyState      = "STATE"
	KeyPostalCode = "POSTALCODE"
	KeyCountry    = "COUNTRY"
	KeyOFXURL     = "OFXURL"
)

// Section is a loosely-typed view over one logical group of response
// fields. Absence of a key is a normal state, not an error.
type Section map[string]string

// Lookup returns the value for key and whether it was present in the
// response. A present-but-empty value reports (  "", true ).
func (s Section) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Get returns the value for key, or the empty string when absent.
func (s Section) Get(key string) string {
	return s[key]
}

// Set records a value. The first occurrence of a key wins so that nested
// repeats deeper in the response cannot shadow institution-level fields.
func (s Section) Set(key, value string) {
	if _, ok := s[key]; ok {
		return
	}
	s[key] = value
}

// ProfileResponse is the parsed, structured view over a raw OFX profile
// response body. It holds no reference back to the raw cache entry.
type ProfileResponse struct {
	// Signon holds fields from the SONRS signon response, including the
	// FID/ORG pair from the nested FI aggregate.
	Signon Section

	// Profile holds fields from the PROFRS profile response. The
	// institution's top-level URL tag is exposed under KeyOFXURL.
	Profile Section

	// MessageSets lists the message-set aggregates advertised in
	// MSGSETLIST, in document order.
	MessageSets []string

	// Declaration holds the OFX declaration headers that preceded the
	// body (OFXHEADER, VERSION, SECURITY, ...).
	Declaration map[string]string
}

// NewProfileResponse returns an empty profile response with initialized
// sections.
func NewProfileResponse() *ProfileResponse {
	return &ProfileResponse{
		Signon:      Section{},
		Profile:     Section{},
		Declaration: map[string]string{},
	}
}
