package command

import (
	"regexp"
	"strings"
)

const (
	markerDeadline = "deadline"
	markerRemind   = "remind"
)

var clauseRes = map[string]*regexp.Regexp{
	markerDeadline: regexp.MustCompile(`(?i)/deadline\s+([\d\-:\s]+)`),
	markerRemind:   regexp.MustCompile(`(?i)/remind\s+([\d\-:\s]+)`),
}

// ExtractClause finds the first "/<marker> <value>" clause in text, where the
// value is a greedy run of digits, hyphens, colons and whitespace. It returns
// the trimmed value and text with that one clause cut out. Later occurrences
// of the same marker are left in place.
func ExtractClause(text, marker string) (value, rest string, ok bool) {
	re, known := clauseRes[marker]
	if !known {
		return "", text, false
	}

	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text, false
	}

	value = strings.TrimSpace(text[loc[2]:loc[3]])
	rest = text[:loc[0]] + text[loc[1]:]
	return value, rest, true
}
