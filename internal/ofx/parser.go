package ofx

import (
	"fmt"
	"strings"

	"github.com/BarakBinyamin/ofxpostern/internal/models"
)

// entityDecoder undoes the SGML/XML entity escapes servers apply to
// field values.
var entityDecoder = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&nbsp;", " ",
)

// ParseProfile parses a raw OFX profile response body into its structured
// form. It tolerates both OFX 1.x SGML (unclosed leaf tags) and OFX 2.x
// XML bodies. Absent fields are simply absent from the returned sections;
// only a body with no OFX document at all is an error.
func ParseProfile(text string) (*models.ProfileResponse, error) {
	resp := models.NewProfileResponse()

	body := parseDeclaration(text, resp.Declaration)

	start := strings.Index(body, "<OFX>")
	if start < 0 {
		start = strings.Index(body, "<OFX ")
	}
	if start < 0 {
		return nil, fmt.Errorf("response body contains no OFX document")
	}

	walkDocument(body[start:], resp)
	return resp, nil
}

// parseDeclaration consumes the OFX declaration that precedes the body and
// returns the remainder. OFX 1.x declares "KEY:VALUE" lines; OFX 2.x uses
// <?xml?> / <?OFX?> processing instructions with KEY="VALUE" attributes.
func parseDeclaration(text string, decl map[string]string) string {
	rest := text
	for {
		rest = strings.TrimLeft(rest, " \t\r\n")
		if rest == "" {
			return rest
		}

		if strings.HasPrefix(rest, "<?") {
			end := strings.Index(rest, "?>")
			if end < 0 {
				return rest
			}
			parsePIAttributes(rest[2:end], decl)
			rest = rest[end+2:]
			continue
		}

		if strings.HasPrefix(rest, "<") {
			return rest
		}

		line := rest
		if i := strings.IndexAny(rest, "\r\n"); i >= 0 {
			line, rest = rest[:i], rest[i+1:]
		} else {
			rest = ""
		}
		if k, v, ok := strings.Cut(line, ":"); ok {
			decl[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
}

// parsePIAttributes extracts KEY="VALUE" pairs from a processing
// instruction body such as `OFX OFXHEADER="200" VERSION="211"`.
func parsePIAttributes(pi string, decl map[string]string) {
	fields := strings.Fields(pi)
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		decl[k] = strings.Trim(v, `"'`)
	}
}

// walkDocument scans the tag stream, tracking the open-element stack and
// routing leaf values into the signon and profile sections.
func walkDocument(body string, resp *models.ProfileResponse) {
	var stack []string

	contains := func(name string) bool {
		for _, s := range stack {
			if s == name {
				return true
			}
		}
		return false
	}

	pos := 0
	for {
		start := strings.IndexByte(body[pos:], '<')
		if start < 0 {
			return
		}
		start += pos
		end := strings.IndexByte(body[start:], '>')
		if end < 0 {
			return
		}
		end += start

		tag := strings.TrimSpace(body[start+1 : end])
		pos = end + 1

		switch {
		case strings.HasPrefix(tag, "?"), strings.HasPrefix(tag, "!"):
			continue

		case strings.HasPrefix(tag, "/"):
			name := strings.TrimSpace(tag[1:])
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == name {
					stack = stack[:i]
					break
				}
			}

		default:
			name := tag
			if i := strings.IndexAny(name, " \t"); i >= 0 {
				name = name[:i] // drop attributes
			}
			name = strings.TrimSuffix(name, "/")

			// Text up to the next tag decides leaf vs aggregate.
			next := strings.IndexByte(body[pos:], '<')
			var text string
			if next < 0 {
				text = body[pos:]
			} else {
				text = body[pos : pos+next]
			}
			value := strings.TrimSpace(text)

			if value == "" {
				// Aggregate. Message sets are the direct children of
				// MSGSETLIST.
				if len(stack) > 0 && stack[len(stack)-1] == "MSGSETLIST" {
					resp.MessageSets = append(resp.MessageSets, name)
				}
				stack = append(stack, name)
				continue
			}

			recordLeaf(name, entityDecoder.Replace(value), stack, contains, resp)
		}
	}
}

// recordLeaf routes one leaf tag value based on where in the document it
// appeared.
func recordLeaf(name, value string, stack []string, contains func(string) bool, resp *models.ProfileResponse) {
	switch {
	case contains("SONRS"):
		resp.Signon.Set(name, value)

	case contains("PROFRS"):
		if contains("MSGSETLIST") || contains("SIGNONINFOLIST") {
			return
		}
		key := name
		if key == "URL" {
			// The institution's top-level URL; message-set URLs never
			// reach here.
			key = models.KeyOFXURL
		}
		resp.Profile.Set(key, value)
	}
}
