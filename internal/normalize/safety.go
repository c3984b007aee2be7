package normalize

import (
	"regexp"
	"strings"

	"adapterd/pkg/types"
)

// The safety filter redacts personal-data assertions the model cannot have
// verified: contact details that do not originate from the request's own
// payload are treated as fabricated.

const redactedMark = "[redacted]"

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	regexp.MustCompile(`\+?\d{1,3}(?:[ .()-]?\d{2,4}){3,4}`),
}

// allowedTerms collects the request's own text so caller-supplied contact
// data passes through unredacted.
func allowedTerms(req types.Request) string {
	var b strings.Builder
	b.WriteString(req.Message)
	b.Write(req.Resume)
	b.Write(req.JobOffers)
	return b.String()
}

// redactPayload rewrites every string value in payload, replacing sensitive
// matches absent from the request with the redaction mark. Returns the
// filtered payload and the number of redactions applied.
func redactPayload(payload types.Payload, allowed string) (types.Payload, int) {
	total := 0
	for k, v := range payload {
		s, ok := v.(string)
		if !ok {
			continue
		}
		filtered, n := redactText(s, allowed)
		if n > 0 {
			payload[k] = filtered
			total += n
		}
	}
	return payload, total
}

func redactText(s, allowed string) (string, int) {
	n := 0
	for _, re := range sensitivePatterns {
		s = re.ReplaceAllStringFunc(s, func(match string) string {
			if strings.Contains(allowed, match) {
				return match
			}
			n++
			return redactedMark
		})
	}
	return s, n
}
