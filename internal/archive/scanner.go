package archive

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// furniture lists anchor texts that belong to the page layout, not to commits
var furniture = map[string]bool{
	"Home":          true,
	"News":          true,
	"Projects":      true,
	"Art":           true,
	"Support":       true,
	"Development":   true,
	"Community":     true,
	"List archives": true,
	"Archives":      true,
	"Thread":        true,
	"Author":        true,
	"Date":          true,
	"Prev":          true,
	"Next":          true,
}

// IsFurniture reports whether an anchor text is page navigation
func IsFurniture(subject string) bool {
	return furniture[subject]
}

var (
	weekdayRegex = regexp.MustCompile(`(?i)^(mon|tue|wed|thu|fri|sat|sun)[a-z]*\.?,?\s+`)
	monthRegex   = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?(\s|,|$)`)
	dayRegex     = regexp.MustCompile(`(?i)(^|[^\d])\d{1,2}(st|nd|rd|th)?([^\d]|$)`)
	numericDate  = regexp.MustCompile(`\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}`)
)

// dateLayouts are tried when dateparse rejects a heading
var dateLayouts = []string{
	"January 2, 2006",
	"January 02, 2006",
	"2 January 2006",
	"02 January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses a date heading such as "October 14, 2026" or
// "Sunday, 14 October 2026". Text that does not name both a month and a day
// is rejected, so a bare number in bold never becomes a date.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if !hasMonthAndDay(s) {
		return time.Time{}, fmt.Errorf("not a date heading: %q", s)
	}
	s = weekdayRegex.ReplaceAllString(s, "")

	d, err := dateparse.ParseIn(s, loc)
	if err == nil {
		return d, nil
	}
	for _, layout := range dateLayouts {
		if d, lerr := time.ParseInLocation(layout, s, loc); lerr == nil {
			return d, nil
		}
	}
	return time.Time{}, err
}

func hasMonthAndDay(s string) bool {
	if numericDate.MatchString(s) {
		return true
	}
	return monthRegex.MatchString(s) && dayRegex.MatchString(s)
}

// Step advances the scanner by one event. Unexpected events leave the mode
// unchanged, so unbalanced markup only loses the fragment it damages.
func Step(s State, ev Event) (State, Outcome, RawUpdate) {
	switch ev.Kind {
	case OpenListItem:
		var out Outcome
		s, out = settle(s)
		s.Mode = InListItem
		s.emitted = false
		return s, out, RawUpdate{}

	case CloseListItem:
		if s.Mode == InListItem || s.Mode == InListItemInAnchor {
			var out Outcome
			s, out = settle(s)
			s.Mode = Outside
			return s, out, RawUpdate{}
		}

	case OpenAnchor:
		if s.Mode == InListItem {
			s.Mode = InListItemInAnchor
			s.Subject = ""
			s.emitted = false
		}

	case CloseAnchor:
		if s.Mode == InListItemInAnchor {
			s.Mode = InListItem
		}

	case OpenStrong:
		if s.Mode != InStrongTag {
			s.resume = s.Mode
			s.Mode = InStrongTag
		}

	case CloseStrong:
		if s.Mode == InStrongTag {
			s.Mode = s.resume
		}

	case Text:
		return stepText(s, cleanText(ev.Text))
	}

	return s, None, RawUpdate{}
}

// settle closes a list item whose subject never got an author
func settle(s State) (State, Outcome) {
	subject := s.Subject
	s.Subject = ""
	if subject == "" || s.emitted {
		return s, None
	}
	if s.Mode != InListItem && s.Mode != InListItemInAnchor {
		return s, None
	}
	if IsFurniture(subject) {
		return s, Furniture
	}
	return s, Missed
}

func stepText(s State, text string) (State, Outcome, RawUpdate) {
	if text == "" {
		return s, None, RawUpdate{}
	}

	switch s.Mode {
	case InStrongTag:
		d, err := ParseDate(text, s.Location)
		if err != nil {
			return s, BadDate, RawUpdate{Subject: text}
		}
		s.Date = d
		s.seq = 0

	case InListItemInAnchor:
		if s.Subject == "" {
			s.Subject = text
		} else {
			s.Subject += " " + text
		}

	case InListItem:
		if s.emitted {
			break
		}
		if s.Subject == "" {
			s.emitted = true
			return s, Missed, RawUpdate{}
		}

		subject := s.Subject
		s.Subject = ""
		s.emitted = true
		if IsFurniture(subject) {
			return s, Furniture, RawUpdate{}
		}

		u := RawUpdate{
			Subject:   subject,
			Author:    text,
			Timestamp: s.Date.Add(time.Duration(s.seq) * time.Microsecond),
		}
		s.seq++
		return s, Emitted, u
	}

	return s, None, RawUpdate{}
}

// cleanText trims whitespace including the non-breaking spaces archives put
// between the subject and the author
func cleanText(s string) string {
	return strings.TrimFunc(s, unicode.IsSpace)
}
