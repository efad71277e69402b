package highlightpos

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"bookferry/internal/textlocate"
)

func newTestResolver() *Resolver {
	return NewResolver(textlocate.DefaultOptions())
}

func TestResolveDirectContainmentRoundTrip(t *testing.T) {
	doc := Renderings{
		PlainText:    "Opening paragraph. The highlighted sentence lives here. Closing words.",
		MarkdownText: "# Title\n\nOpening paragraph. The *highlighted* sentence lives here.",
		RawMarkup:    "<p>Opening paragraph.</p>",
	}
	quote := Quote{
		RawText:   "The highlighted sentence lives here.",
		PlainText: "The highlighted sentence lives here.",
	}

	span, err := newTestResolver().Resolve(quote, doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// The markdown rendering carries emphasis markers, so only the
	// plain-text check fires and the start is the exact index.
	wantStart := strings.Index(doc.PlainText, quote.PlainText)
	if span.Start != wantStart {
		t.Errorf("start = %d, want exact index %d", span.Start, wantStart)
	}
	if span.End-span.Start != utf8.RuneCountInString(quote.PlainText) {
		t.Errorf("span length = %d, want quote length %d", span.End-span.Start, utf8.RuneCountInString(quote.PlainText))
	}
}

func TestResolveCombinedContainmentAverages(t *testing.T) {
	plain := strings.Repeat("p", 50) + "shared sentence" + strings.Repeat("p", 35)
	markdown := strings.Repeat("m", 150) + "shared sentence" + strings.Repeat("m", 35)
	doc := Renderings{PlainText: plain, MarkdownText: markdown}
	quote := Quote{RawText: "shared sentence", PlainText: "shared sentence"}

	span, err := newTestResolver().Resolve(quote, doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Average of the exact plain index (50) and the markdown fraction
	// (150/200) scaled onto the plain length (0.75 * 100 = 75).
	if span.Start != 63 {
		t.Errorf("start = %d, want 63", span.Start)
	}
}

func TestResolveTextOnlyContainmentIsExact(t *testing.T) {
	doc := Renderings{
		PlainText:    "Alpha beta gamma delta epsilon zeta eta theta.",
		MarkdownText: "Entirely different markdown body without the quote.",
	}
	quote := Quote{RawText: "*gamma* delta", PlainText: "gamma delta"}

	span, err := newTestResolver().Resolve(quote, doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantStart := strings.Index(doc.PlainText, "gamma delta")
	if span.Start != wantStart {
		t.Errorf("start = %d, want exact index %d", span.Start, wantStart)
	}
	if span.End != wantStart+len("gamma delta") {
		t.Errorf("end = %d, want %d", span.End, wantStart+len("gamma delta"))
	}
}

func TestResolveMarkdownOnlyContainmentScales(t *testing.T) {
	markdown := strings.Repeat("filler words here. ", 20) + "the **quoted** span" + strings.Repeat(" trailing", 10)
	doc := Renderings{
		PlainText:    strings.Repeat("x", 200),
		MarkdownText: markdown,
	}
	quote := Quote{RawText: "the **quoted** span", PlainText: "the quoted span"}

	span, err := newTestResolver().Resolve(quote, doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	mdIdx := strings.Index(markdown, quote.RawText)
	wantStart := int(float64(mdIdx) / float64(len(markdown)) * 200)
	if span.Start < wantStart-2 || span.Start > wantStart+2 {
		t.Errorf("start = %d, want near scaled %d", span.Start, wantStart)
	}
}

func TestResolveApproximateFallback(t *testing.T) {
	plain := "Introduction text. The migration engine localizes highlight excerpts across renderings. Conclusion."
	doc := Renderings{
		PlainText:    plain,
		MarkdownText: "## Heading\n\nIntroduction text. The migration engine localizes highlight excerpts across renderings.",
	}
	// One typo keeps both direct containment checks from firing.
	quote := Quote{
		RawText:   "migration engine localzes highlight excerpts",
		PlainText: "migration engine localzes highlight excerpts",
	}

	span, err := newTestResolver().Resolve(quote, doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantNear := strings.Index(plain, "migration engine")
	if span.Start < wantNear-25 || span.Start > wantNear+25 {
		t.Errorf("start = %d, want near %d", span.Start, wantNear)
	}
}

func TestResolveApproximateDisagreementTrustsMarkdown(t *testing.T) {
	phrase := "zebra quagga okapi wildebeest"
	filler := strings.Repeat("lorem ipsum dolor sit amet consectetur ", 10)
	doc := Renderings{
		PlainText:    phrase + " " + filler,
		MarkdownText: filler + phrase,
	}
	// One typo keeps both direct containment checks from firing; the
	// phrase sits at the front of the plain text but at the back of the
	// markdown, so the two fractional estimates are far apart.
	quote := Quote{
		RawText:   "zebra quaga okapi wildebeest",
		PlainText: "zebra quaga okapi wildebeest",
	}

	span, err := newTestResolver().Resolve(quote, doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// Estimates this far apart are not averaged (which would land near
	// the middle); the markdown fraction alone places the span in the
	// final quarter of the plain text.
	textLen := utf8.RuneCountInString(doc.PlainText)
	if span.Start < textLen*3/4 {
		t.Errorf("start = %d, want in the final quarter of %d runes", span.Start, textLen)
	}
	if span.End-span.Start != utf8.RuneCountInString(quote.PlainText) {
		t.Errorf("span length = %d, want quote length %d", span.End-span.Start, utf8.RuneCountInString(quote.PlainText))
	}
}

func TestResolveLinkOnlyQuoteDegeneratesToZero(t *testing.T) {
	markup := strings.Repeat("<p>pad</p>", 50) + `<a href="https://linked.example/page">link</a>` + strings.Repeat("<p>pad</p>", 49)
	doc := Renderings{
		PlainText: "",
		RawMarkup: markup,
	}
	quote := Quote{RawText: "[link](https://linked.example/page)", PlainText: ""}

	span, err := newTestResolver().Resolve(quote, doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Scaling by the empty plain text collapses to zero; this is the
	// documented compatibility behavior, not an error.
	if span.Start != 0 || span.End != 0 {
		t.Errorf("span = %+v, want zero span", span)
	}
}

func TestResolveUnresolvable(t *testing.T) {
	doc := Renderings{
		PlainText:    "",
		MarkdownText: "",
		RawMarkup:    "",
	}
	quote := Quote{RawText: "[gone](https://missing.example/x)", PlainText: ""}

	_, err := newTestResolver().Resolve(quote, doc)
	if !errors.Is(err, ErrUnresolvable) {
		t.Errorf("err = %v, want ErrUnresolvable", err)
	}
}

func TestResolvePropagatesLocatorOptionErrors(t *testing.T) {
	r := NewResolver(textlocate.Options{StepFactor: 0})
	doc := Renderings{PlainText: "some body", MarkdownText: "other body"}
	quote := Quote{RawText: "absent quote", PlainText: "absent quote"}

	if _, err := r.Resolve(quote, doc); err == nil || errors.Is(err, ErrUnresolvable) {
		t.Errorf("err = %v, want an options validation error", err)
	}
}
