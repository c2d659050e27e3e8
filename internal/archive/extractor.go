package archive

import (
	"io"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/audi70r/commitdigest/internal/logger"
)

// Match "[project/branch] message<TAB>author" or the same with 2+ spaces
var textLineRegex = regexp.MustCompile(`^(\[.*\S)(?:\t+|\s{2,})(\S.*)$`)

// Extractor turns archive pages into raw updates
type Extractor struct {
	state    State
	updates  []RawUpdate
	progress ScanProgress
}

// NewExtractor creates an extractor. fallback is the date context used until
// the page provides one.
func NewExtractor(fallback time.Time, loc *time.Location) *Extractor {
	return &Extractor{state: NewState(fallback, loc)}
}

// Extract scans list-item markup and returns the updates found in it
func (e *Extractor) Extract(markup string) []RawUpdate {
	start := len(e.updates)
	tokenize(strings.NewReader(markup), e.feed)
	return e.updates[start:]
}

// ExtractText scans a plain-text digest: date lines set the date context and
// "[project/branch] message" lines carry the author after a tab or two spaces
func (e *Extractor) ExtractText(text string) []RawUpdate {
	start := len(e.updates)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := textLineRegex.FindStringSubmatch(line); m != nil {
			e.feed(Event{Kind: OpenListItem})
			e.feed(Event{Kind: OpenAnchor})
			e.feed(Event{Kind: Text, Text: m[1]})
			e.feed(Event{Kind: CloseAnchor})
			e.feed(Event{Kind: Text, Text: m[2]})
			e.feed(Event{Kind: CloseListItem})
			continue
		}

		if !strings.HasPrefix(line, "[") {
			if _, err := ParseDate(line, e.state.Location); err == nil {
				e.feed(Event{Kind: OpenStrong})
				e.feed(Event{Kind: Text, Text: line})
				e.feed(Event{Kind: CloseStrong})
				continue
			}
		}

		// no subject could be separated from the line
		e.feed(Event{Kind: OpenListItem})
		e.feed(Event{Kind: Text, Text: line})
		e.feed(Event{Kind: CloseListItem})
	}

	return e.updates[start:]
}

// Updates returns every update accepted so far
func (e *Extractor) Updates() []RawUpdate {
	return e.updates
}

// Progress returns the extraction counters
func (e *Extractor) Progress() ScanProgress {
	return e.progress
}

// Stats returns (matched, matched+missed)
func (e *Extractor) Stats() (int, int) {
	return e.progress.Matched, e.progress.Total()
}

func (e *Extractor) feed(ev Event) {
	next, outcome, u := Step(e.state, ev)
	e.state = next

	switch outcome {
	case Emitted:
		e.updates = append(e.updates, u)
		e.progress.Matched++
	case Missed:
		e.progress.Missed++
	case Furniture:
		e.progress.Furniture++
	case BadDate:
		e.progress.BadDates++
		logger.WithField("text", u.Subject).Debug("bold text is not a date, keeping previous date context")
	}
}

// tokenize converts markup into scanner events. Tokenizer errors end the
// stream; whatever was read before them is kept.
func tokenize(r io.Reader, emit func(Event)) {
	z := html.NewTokenizer(r)

	for {
		switch z.Next() {
		case html.ErrorToken:
			return

		case html.TextToken:
			emit(Event{Kind: Text, Text: string(z.Text())})

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "li":
				emit(Event{Kind: OpenListItem})
			case "strong":
				emit(Event{Kind: OpenStrong})
			case "a":
				if hasAttr && hasHref(z) {
					emit(Event{Kind: OpenAnchor})
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "li":
				emit(Event{Kind: CloseListItem})
			case "strong":
				emit(Event{Kind: CloseStrong})
			case "a":
				emit(Event{Kind: CloseAnchor})
			}
		}
	}
}

// hasHref reports whether the current tag carries an href attribute.
// Named anchors without href are targets, not links.
func hasHref(z *html.Tokenizer) bool {
	for {
		key, _, more := z.TagAttr()
		if string(key) == "href" {
			return true
		}
		if !more {
			return false
		}
	}
}
