package highlightpos

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"bookferry/internal/textlocate"
)

// ErrUnresolvable is returned when every resolution strategy fails for a
// quote. It is fatal for that single highlight only; batch callers catch
// it per item and continue.
var ErrUnresolvable = errors.New("highlight position unresolvable")

// disagreementLimit is the fractional-position spread, relative to
// document length, beyond which the plain-text estimate is discarded in
// favor of the markdown one.
const disagreementLimit = 0.20

// absoluteURLPattern matches absolute http(s) URLs inside raw quote markup.
var absoluteURLPattern = regexp.MustCompile(`https?://[^\s<>()\[\]"']+`)

// Quote is one highlight excerpt. RawText may contain markdown and link
// syntax; PlainText is its stripped rendering, empty only for link-only
// quotes.
type Quote struct {
	RawText   string
	PlainText string
}

// Renderings carries three externally derived views of one document. The
// resolver never regenerates one view from another.
type Renderings struct {
	PlainText    string
	MarkdownText string
	RawMarkup    string
}

// Span is a half-open character offset range in the plain-text rendering.
type Span struct {
	Start int
	End   int
}

// Resolver localizes highlight quotes using the approximate substring
// locator for its fallback strategy.
type Resolver struct {
	locator textlocate.Options
}

// NewResolver builds a resolver; opts configure the approximate fallback.
func NewResolver(opts textlocate.Options) *Resolver {
	return &Resolver{locator: opts}
}

// Resolve returns the offsets of quote in doc.PlainText, or
// ErrUnresolvable when every strategy fails.
func (r *Resolver) Resolve(quote Quote, doc Renderings) (Span, error) {
	textLen := utf8.RuneCountInString(doc.PlainText)
	quoteLen := utf8.RuneCountInString(quote.PlainText)

	if start, ok := r.resolveDirect(quote, doc, textLen); ok {
		return Span{Start: start, End: start + quoteLen}, nil
	}
	if start, ok, err := r.resolveApproximate(quote, doc, textLen); err != nil {
		return Span{}, err
	} else if ok {
		return Span{Start: start, End: start + quoteLen}, nil
	}
	if quote.PlainText == "" {
		if start, ok := resolveLinkOnly(quote, doc, quoteLen); ok {
			return Span{Start: start, End: start + quoteLen}, nil
		}
	}
	return Span{}, fmt.Errorf("resolve quote %.40q: %w", quote.RawText, ErrUnresolvable)
}

// resolveDirect checks literal containment in the plain-text and markdown
// renderings. When both fire, the two fractional estimates are averaged;
// a plain-text hit alone is exact and needs no scaling.
func (r *Resolver) resolveDirect(quote Quote, doc Renderings, textLen int) (int, bool) {
	textIdx := -1
	if quote.PlainText != "" {
		textIdx = runeIndex(doc.PlainText, quote.PlainText)
	}
	mdIdx := -1
	if quote.RawText != "" {
		mdIdx = runeIndex(doc.MarkdownText, quote.RawText)
	}
	mdLen := utf8.RuneCountInString(doc.MarkdownText)

	switch {
	case textIdx >= 0 && mdIdx >= 0 && mdLen > 0:
		posMarkdown := float64(mdIdx) / float64(mdLen)
		combined := (float64(textIdx) + posMarkdown*float64(textLen)) / 2
		return int(math.Round(combined)), true
	case textIdx >= 0:
		return textIdx, true
	case mdIdx >= 0 && mdLen > 0:
		posMarkdown := float64(mdIdx) / float64(mdLen)
		return int(math.Round(posMarkdown * float64(textLen))), true
	default:
		return 0, false
	}
}

// resolveApproximate locates the quote in both renderings independently
// and reconciles the fractional estimates. Estimates further apart than
// disagreementLimit of the document trust the markdown side only.
func (r *Resolver) resolveApproximate(quote Quote, doc Renderings, textLen int) (int, bool, error) {
	textFrac, textOK, err := r.locateFraction(quote.PlainText, doc.PlainText)
	if err != nil {
		return 0, false, err
	}
	mdFrac, mdOK, err := r.locateFraction(quote.RawText, doc.MarkdownText)
	if err != nil {
		return 0, false, err
	}

	var fraction float64
	switch {
	case textOK && mdOK:
		if math.Abs(textFrac-mdFrac) >= disagreementLimit {
			fraction = mdFrac
		} else {
			fraction = (textFrac + mdFrac) / 2
		}
	case textOK:
		fraction = textFrac
	case mdOK:
		fraction = mdFrac
	default:
		return 0, false, nil
	}
	return int(math.Round(fraction * float64(textLen))), true, nil
}

// locateFraction runs the approximate locator and converts its first
// match back into a fractional position within the corpus.
func (r *Resolver) locateFraction(query, corpus string) (float64, bool, error) {
	result, err := textlocate.Locate(query, corpus, r.locator)
	if err != nil {
		return 0, false, err
	}
	if len(result.Matches) == 0 {
		return 0, false, nil
	}
	idx := runeIndex(corpus, result.Matches[0])
	if idx < 0 {
		return 0, false, nil
	}
	corpusLen := utf8.RuneCountInString(corpus)
	if corpusLen == 0 {
		return 0, false, nil
	}
	return float64(idx) / float64(corpusLen), true, nil
}

// resolveLinkOnly anchors a pure-link quote by the byte positions of its
// URLs inside the raw markup. Scaling the markup fraction by the empty
// plain-text length collapses the start to zero; that mirrors the
// historical behavior highlight data was written with and is kept for
// compatibility.
func resolveLinkOnly(quote Quote, doc Renderings, quoteLen int) (int, bool) {
	urls := absoluteURLPattern.FindAllString(quote.RawText, -1)
	if len(urls) == 0 {
		return 0, false
	}
	markupLen := utf8.RuneCountInString(doc.RawMarkup)
	if markupLen == 0 {
		return 0, false
	}

	var sum, found int
	for _, url := range urls {
		if idx := runeIndex(doc.RawMarkup, url); idx >= 0 {
			sum += idx
			found++
		}
	}
	if found == 0 {
		return 0, false
	}
	fraction := (float64(sum) / float64(found)) / float64(markupLen)
	return int(math.Round(fraction * float64(quoteLen))), true
}

// runeIndex returns the rune offset of the first occurrence of needle in
// haystack, or -1.
func runeIndex(haystack, needle string) int {
	byteIdx := strings.Index(haystack, needle)
	if byteIdx < 0 {
		return -1
	}
	return utf8.RuneCountInString(haystack[:byteIdx])
}
