// Package ofx implements the OFX protocol client: request construction,
// transport, and response parsing.
package ofx

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BarakBinyamin/ofxpostern/internal/models"
)

// RequestNameProfile names the OFX profile request, the message pair that
// returns an institution's capabilities and identifying metadata.
const RequestNameProfile = "OFX PROFILE"

// anonymousUser is the well-known anonymous signon identity accepted by
// OFX servers for profile requests.
const anonymousUser = "anonymous00000000000000000000000"

// buildProfileRequest renders an OFX 1.0.2 SGML <PROFRQ> envelope with an
// anonymous signon for the given identity.
func buildProfileRequest(identity models.ServerIdentity, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("OFXHEADER:100\r\n")
	sb.WriteString("DATA:OFXSGML\r\n")
	sb.WriteString("VERSION:102\r\n")
	sb.WriteString("SECURITY:NONE\r\n")
	sb.WriteString("ENCODING:USASCII\r\n")
	sb.WriteString("CHARSET:1252\r\n")
	sb.WriteString("COMPRESSION:NONE\r\n")
	sb.WriteString("OLDFILEUID:NONE\r\n")
	sb.WriteString(fmt.Sprintf("NEWFILEUID:%s\r\n", uuid.New().String()))
	sb.WriteString("\r\n")

	sb.WriteString("<OFX>\r\n")
	sb.WriteString("<SIGNONMSGSRQV1>\r\n")
	sb.WriteString("<SONRQ>\r\n")
	sb.WriteString(fmt.Sprintf("<DTCLIENT>%s\r\n", now.UTC().Format("20060102150405")))
	sb.WriteString(fmt.Sprintf("<USERID>%s\r\n", anonymousUser))
	sb.WriteString(fmt.Sprintf("<USERPASS>%s\r\n", anonymousUser))
	sb.WriteString("<GENUSERKEY>N\r\n")
	sb.WriteString("<LANGUAGE>ENG\r\n")
	if identity.FID != "" || identity.Org != "" {
		sb.WriteString("<FI>\r\n")
		if identity.Org != "" {
			sb.WriteString(fmt.Sprintf("<ORG>%s\r\n", identity.Org))
		}
		if identity.FID != "" {
			sb.WriteString(fmt.Sprintf("<FID>%s\r\n", identity.FID))
		}
		sb.WriteString("</FI>\r\n")
	}
	sb.WriteString("<APPID>QWIN\r\n")
	sb.WriteString("<APPVER>2700\r\n")
	sb.WriteString("</SONRQ>\r\n")
	sb.WriteString("</SIGNONMSGSRQV1>\r\n")

	sb.WriteString("<PROFMSGSRQV1>\r\n")
	sb.WriteString("<PROFTRNRQ>\r\n")
	sb.WriteString(fmt.Sprintf("<TRNUID>%s\r\n", uuid.New().String()))
	sb.WriteString("<PROFRQ>\r\n")
	sb.WriteString("<CLIENTROUTING>NONE\r\n")
	sb.WriteString("<DTPROFUP>19970101\r\n")
	sb.WriteString("</PROFRQ>\r\n")
	sb.WriteString("</PROFTRNRQ>\r\n")
	sb.WriteString("</PROFMSGSRQV1>\r\n")
	sb.WriteString("</OFX>\r\n")

	return sb.String()
}
