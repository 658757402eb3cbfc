// Package timeparse turns the time expressions accepted by task commands
// into absolute instants.
//
// Two forms are understood: a bare clock time (H:MM or HH:MM), which is
// placed on the current calendar day, and a full date-time such as
// "2026-10-17 09:30". A clock time that has already passed today is NOT
// moved to tomorrow; the resulting instant lies in the past and the
// reminder scanner will never fire it.
//
// Only digits, dashes, colons and spaces survive clause extraction, so
// ISO forms with a "T" separator or a zone offset are not accepted.
package timeparse

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrAbsent means no expression was supplied at all.
	ErrAbsent = errors.New("time expression absent")
	// ErrUnparseable means an expression was supplied but is not a valid point in time.
	ErrUnparseable = errors.New("unparseable time expression")
)

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

var absoluteLayouts = []string{
	"2006-1-2 15:04",
	"2006-1-2 15:04:05",
}

type Parser struct {
	loc *time.Location
	now func() time.Time
}

func New(loc *time.Location) *Parser {
	return NewWithClock(loc, time.Now)
}

func NewWithClock(loc *time.Location, now func() time.Time) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{loc: loc, now: now}
}

// Location is the zone clock times are interpreted and displayed in.
func (p *Parser) Location() *time.Location {
	return p.loc
}

func (p *Parser) Parse(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, ErrAbsent
	}

	if m := clockRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h > 23 || mm > 59 {
			return time.Time{}, ErrUnparseable
		}
		now := p.now().In(p.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), h, mm, 0, 0, p.loc), nil
	}

	// collapse runs of spaces left over by the clause scanner
	s = strings.Join(strings.Fields(s), " ")
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnparseable
}

// Format renders t as local hour:minute, the only form shown to users.
func (p *Parser) Format(t time.Time) string {
	return t.In(p.loc).Format("15:04")
}
