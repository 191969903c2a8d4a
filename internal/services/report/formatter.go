// Package report renders the human-readable fingerprint report.
package report

import (
	"fmt"
	"strings"

	"github.com/BarakBinyamin/ofxpostern/internal/models"
)

// kv is one report line: a label and its value. Labels may be empty for
// continuation lines.
type kv struct {
	Label string
	Value string
}

// FormatHeader renders a header underlined on the second line, similar to
// <H1>/<H2>/<H3>. An unsupported level is a programming error.
func FormatHeader(msg string, level int) string {
	var underChar string
	switch level {
	case 1:
		underChar = "#"
	case 2:
		underChar = "="
	case 3:
		underChar = "-"
	default:
		panic(fmt.Sprintf("unknown header level: %d", level))
	}
	return msg + "\n" + strings.Repeat(underChar, len(msg)) + "\n"
}

// formatKVList renders label/value pairs in call order. Each label gets a
// trailing colon and is left-justified to the longest label plus one
// column, then a single space, then the value.
func formatKVList(list []kv) string {
	width := 0
	for _, item := range list {
		if len(item.Label) > width {
			width = len(item.Label)
		}
	}

	var sb strings.Builder
	for _, item := range list {
		sb.WriteString(fmt.Sprintf("%-*s %s\n", width+1, item.Label+":", item.Value))
	}
	return sb.String()
}

// formatInstitution renders the Financial Institution block. Name and
// address lines are skipped when absent; the city/state/postalcode line
// and the country line always render, blanking absent values.
func formatInstitution(profile *models.ProfileResponse) string {
	var sb strings.Builder
	sb.WriteString(FormatHeader("Financial Institution", 2))
	sb.WriteString("\n")

	attempts := []struct {
		key   string
		label string
	}{
		{models.KeyFIName, "Name"},
		{models.KeyAddr1, "Address"},
		{models.KeyAddr2, ""},
		{models.KeyAddr3, ""},
	}

	var list []kv
	for _, a := range attempts {
		if val, ok := profile.Profile.Lookup(a.key); ok {
			list = append(list, kv{Label: a.label, Value: val})
		}
	}

	city := profile.Profile.Get(models.KeyCity)
	state := profile.Profile.Get(models.KeyState)
	postalCode := profile.Profile.Get(models.KeyPostalCode)
	list = append(list, kv{Value: fmt.Sprintf("%s, %s %s", city, state, postalCode)})

	list = append(list, kv{Value: profile.Profile.Get(models.KeyCountry)})

	sb.WriteString(formatKVList(list))
	sb.WriteString("\n")
	return sb.String()
}

// formatServer renders the OFX Server block. Every line is skipped
// entirely when its field is absent.
func formatServer(profile *models.ProfileResponse) string {
	var sb strings.Builder
	sb.WriteString(FormatHeader("OFX Server", 2))
	sb.WriteString("\n")

	var list []kv
	if val, ok := profile.Signon.Lookup(models.KeyFID); ok {
		list = append(list, kv{Label: "FID", Value: val})
	}
	if val, ok := profile.Signon.Lookup(models.KeyOrg); ok {
		list = append(list, kv{Label: "ORG", Value: val})
	}
	if val, ok := profile.Profile.Lookup(models.KeyOFXURL); ok {
		list = append(list, kv{Label: "URL", Value: val})
	}

	sb.WriteString(formatKVList(list))
	sb.WriteString("\n")
	return sb.String()
}

// messageSetNames maps MSGSETLIST aggregates to the services they
// advertise.
var messageSetNames = map[string]string{
	"SIGNONMSGSET":     "Sign-on",
	"SIGNUPMSGSET":     "Account sign-up",
	"BANKMSGSET":       "Banking",
	"CREDITCARDMSGSET": "Credit card statements",
	"LOANMSGSET":       "Loan statements",
	"INVSTMTMSGSET":    "Investment statements",
	"INTERXFERMSGSET":  "Interbank transfers",
	"WIREXFERMSGSET":   "Wire transfers",
	"BILLPAYMSGSET":    "Bill payment",
	"EMAILMSGSET":      "Email",
	"SECLISTMSGSET":    "Security lists",
	"PRESDIRMSGSET":    "Biller directory",
	"PRESDLVMSGSET":    "Bill delivery",
	"PROFMSGSET":       "Server profile",
	"TAX1099MSGSET":    "Tax 1099 forms",
}

// formatCapabilities renders the message sets the server advertises.
// Returns the empty string when the profile listed none.
func formatCapabilities(profile *models.ProfileResponse) string {
	if len(profile.MessageSets) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(FormatHeader("Capabilities", 2))
	sb.WriteString("\n")

	list := make([]kv, 0, len(profile.MessageSets))
	for _, ms := range profile.MessageSets {
		desc, ok := messageSetNames[ms]
		if !ok {
			desc = "(unrecognized)"
		}
		list = append(list, kv{Label: ms, Value: desc})
	}

	sb.WriteString(formatKVList(list))
	sb.WriteString("\n")
	return sb.String()
}

// formatConnection renders transport-level facts captured during the
// exchange. Returns the empty string when nothing was captured.
func formatConnection(raw *models.OFXResponse) string {
	if raw == nil {
		return ""
	}

	var list []kv
	if server, ok := raw.Headers["Server"]; ok && server != "" {
		list = append(list, kv{Label: "HTTP Server", Value: server})
	}
	if !raw.TLS.IsZero() {
		list = append(list, kv{Label: "TLS Subject", Value: raw.TLS.Subject})
		list = append(list, kv{Label: "TLS Issuer", Value: raw.TLS.Issuer})
		list = append(list, kv{Label: "TLS Expires", Value: raw.TLS.NotAfter.Format("2006-01-02")})
	}
	if len(list) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(FormatHeader("Connection", 2))
	sb.WriteString("\n")
	sb.WriteString(formatKVList(list))
	sb.WriteString("\n")
	return sb.String()
}

// FormatReport renders the full fingerprint report: the institution and
// server blocks always, capability and connection blocks when the data
// supports them.
func FormatReport(profile *models.ProfileResponse, raw *models.OFXResponse) string {
	var sb strings.Builder
	sb.WriteString(formatInstitution(profile))
	sb.WriteString(formatServer(profile))
	sb.WriteString(formatCapabilities(profile))
	sb.WriteString(formatConnection(raw))
	return sb.String()
}
