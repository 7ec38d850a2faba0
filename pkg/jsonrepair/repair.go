// Package jsonrepair performs best-effort repair of structurally damaged JSON
// bodies. Some webhook senders drop values mid-serialization, producing
// fragments like `"Field": ,` or a trailing key with no value at all. Repair
// never fails: if anything goes wrong the original input is returned unchanged
// and the downstream decoder reports the real error.
package jsonrepair

import (
	"regexp"
	"strings"
)

var (
	emptyValueRe       = regexp.MustCompile(`:\s*,`)
	danglingKeyRe      = regexp.MustCompile(`,\s*"\w+":\s*$`)
	danglingKeyStartRe = regexp.MustCompile(`\s*"\w+":\s*$`)
	commaBeforeBraceRe = regexp.MustCompile(`,\s*}`)
	commaBeforeBrackRe = regexp.MustCompile(`,\s*]`)
)

// Repair rewrites raw line by line, patching the known damage patterns.
// It returns the repaired text and whether anything was changed. The result
// may still be invalid JSON; callers must still decode strictly.
func Repair(raw string) (repaired string, changed bool) {
	defer func() {
		// Heuristics over arbitrary input must never take the request down.
		if r := recover(); r != nil {
			repaired = raw
			changed = false
		}
	}()

	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	lastWasValue := false

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		// A new key starting right after a completed value means the sender
		// dropped the separating comma.
		if lastWasValue && strings.HasPrefix(stripped, `"`) && strings.Contains(stripped, ":") {
			if len(out) > 0 {
				out[len(out)-1] = strings.TrimRight(out[len(out)-1], " \t\r") + ","
			}
		}

		line = emptyValueRe.ReplaceAllString(line, ": null,")
		line = danglingKeyRe.ReplaceAllString(line, "")
		line = danglingKeyStartRe.ReplaceAllString(line, "")

		out = append(out, line)

		last := stripped[len(stripped)-1]
		// Quote, closing bracket, digit, or the tail of true/false/null all
		// read as a finished value.
		lastWasValue = last == '"' || last == '}' || last == ']' ||
			last == 'l' || last == 'e' || (last >= '0' && last <= '9')
	}

	repaired = strings.Join(out, "\n")
	repaired = commaBeforeBraceRe.ReplaceAllString(repaired, "}")
	repaired = commaBeforeBrackRe.ReplaceAllString(repaired, "]")

	if !strings.HasSuffix(repaired, "}") {
		repaired += "}"
	}

	return repaired, repaired != raw
}
