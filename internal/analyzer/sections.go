package analyzer

import (
	"unicode/utf8"

	"kokugo/internal/jptext"
	"kokugo/pkg/models"
)

// Candidate filtering windows and thresholds, in runes.
const (
	noiseWindow        = 120 // lookahead for answer-sheet noise after a marker
	classifyWindow     = 300 // head of a section inspected for vocabulary cues
	proseBlockMin      = 500 // contiguous Japanese characters that make a prose block
	maxPlausibleDaimon = 10  // larger numbers are OCR debris unless continuity says otherwise
	minSpanAfterVocab  = 200 // minimum legal span following a vocabulary/other section
	minSpanAfterText   = 500 // minimum legal span following a text passage
)

// markerCandidate is a potential section or question boundary found by a
// family scan. Candidates are promoted to real markers or discarded.
type markerCandidate struct {
	pos      int // byte offset into the cleaned text
	surface  string
	number   int
	priority int
	pattern  string
}

// sectionDraft is the mutable working form of a Section while the pipeline
// runs. The assembler converts drafts to the immutable models.Section.
type sectionDraft struct {
	number    int
	title     string
	class     models.SectionClass
	start     int // byte offsets into the cleaned text
	end       int
	charCount int
	questions []models.Question
	source    *models.Source
	synthetic bool
}

// sectionPriorities orders section-marker pattern names from explicit to
// implicit forms. Explicit forms win ties at the same offset.
var sectionPriorities = []struct {
	name     string
	priority int
}{
	{"section.dai_mon", 3},
	{"section.bracketed", 3},
	{"section.kanji_space_next", 2},
	{"section.kanji_comma_next", 1},
}

// splitSections finds the true 大問 boundaries in the cleaned text and
// returns the ordered section drafts. If no candidate survives filtering, a
// single synthetic section covering the whole text is returned and
// no_sections_detected is warned.
func (a *Analyzer) splitSections(text string, warns *warningList) []*sectionDraft {
	cands := a.sectionCandidates(text)
	cands = a.filterNoise(text, cands)
	cands = enforceMonotonic(cands)
	cands = a.enforceDistance(text, cands)

	if len(cands) == 0 {
		warns.add(WarnNoSections)
		// The synthetic section is a catch-all, not a detected passage; it is
		// always classification other with no character count.
		return []*sectionDraft{{
			number:    1,
			class:     models.SectionOther,
			start:     0,
			end:       len(text),
			synthetic: true,
		}}
	}

	drafts := make([]*sectionDraft, 0, len(cands))
	for i, c := range cands {
		end := len(text)
		if i+1 < len(cands) {
			end = cands[i+1].pos
		}
		draft := &sectionDraft{
			number: c.number,
			title:  c.surface,
			start:  c.pos,
			end:    end,
		}
		a.classify(text, draft)
		drafts = append(drafts, draft)
	}

	a.log.Debug().
		Int("candidates", len(cands)).
		Int("sections", len(drafts)).
		Msg("Sections split")
	return drafts
}

// sectionCandidates scans all section-family patterns and returns candidates
// sorted by position, deduplicated by offset with priority winning ties.
func (a *Analyzer) sectionCandidates(text string) []markerCandidate {
	byPos := make(map[int]markerCandidate)
	for _, p := range sectionPriorities {
		re, err := a.reg.Get(p.name)
		if err != nil {
			continue
		}
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			num, ok := jptext.ParseKansuji(text[m[2]:m[3]])
			if !ok || num < 1 {
				continue
			}
			c := markerCandidate{
				pos:      m[0],
				surface:  text[m[0]:m[1]],
				number:   num,
				priority: p.priority,
				pattern:  p.name,
			}
			if prev, seen := byPos[c.pos]; !seen || c.priority > prev.priority {
				byPos[c.pos] = c
			}
		}
	}

	out := make([]markerCandidate, 0, len(byPos))
	for _, c := range byPos {
		out = append(out, c)
	}
	sortCandidates(out)
	return out
}

func sortCandidates(cs []markerCandidate) {
	// Candidates are few; insertion sort keeps this allocation-free.
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && less(cs[j], cs[j-1]); j-- {
			cs[j], cs[j-1] = cs[j-1], cs[j]
		}
	}
}

func less(a, b markerCandidate) bool {
	if a.pos != b.pos {
		return a.pos < b.pos
	}
	return a.priority > b.priority
}

var noiseNames = []string{"noise.answer_sheet", "noise.form_banner", "noise.instruction"}

// filterNoise discards candidates whose following window looks like
// answer-sheet or instruction noise rather than a section opening.
func (a *Analyzer) filterNoise(text string, cands []markerCandidate) []markerCandidate {
	out := cands[:0:0]
	for _, c := range cands {
		window := headRunes(text[c.pos:], noiseWindow)
		noisy := false
		for _, name := range noiseNames {
			re, err := a.reg.Get(name)
			if err != nil {
				continue
			}
			if re.MatchString(window) {
				noisy = true
				break
			}
		}
		if !noisy {
			out = append(out, c)
		}
	}
	return out
}

// enforceMonotonic walks candidates in document order and keeps only those
// whose number strictly increases. Implausibly large numbers (>10) are kept
// only when they continue the running count, which filters OCR debris like a
// stray 二十二 in the body.
func enforceMonotonic(cands []markerCandidate) []markerCandidate {
	out := cands[:0:0]
	last := 0
	for _, c := range cands {
		if c.number <= last {
			continue
		}
		if c.number > maxPlausibleDaimon && c.number != last+1 {
			continue
		}
		out = append(out, c)
		last = c.number
	}
	return out
}

// enforceDistance applies the adaptive minimum span between adjacent kept
// candidates: a section opening too close to its predecessor is folded into
// it. A preceding section that opens with a vocabulary cue may legally be
// short; one that opens into prose must run at least a passage's length
// before the next section can begin.
func (a *Analyzer) enforceDistance(text string, cands []markerCandidate) []markerCandidate {
	if len(cands) < 2 {
		return cands
	}
	out := []markerCandidate{cands[0]}
	for _, c := range cands[1:] {
		prev := out[len(out)-1]
		span := text[prev.pos:c.pos]
		min := minSpanAfterText
		if a.hasVocabCue(span) {
			min = minSpanAfterVocab
		}
		if utf8.RuneCountInString(span) < min {
			continue
		}
		out = append(out, c)
	}
	return out
}

// hasVocabCue reports whether the head of the span carries a vocabulary cue,
// the preliminary stand-in for full classification during distance checks.
func (a *Analyzer) hasVocabCue(span string) bool {
	re, err := a.reg.Get("misc.vocab_cue")
	if err != nil {
		return false
	}
	return re.MatchString(headRunes(span, classifyWindow))
}

// classify assigns the section classification and character count per the
// vocabulary-cue and prose-block rules.
func (a *Analyzer) classify(text string, d *sectionDraft) {
	body := text[d.start:d.end]
	head := headRunes(body, classifyWindow)

	vocabCue := false
	if re, err := a.reg.Get("misc.vocab_cue"); err == nil {
		vocabCue = re.MatchString(head)
	}
	hasProse := a.longestProseBlock(body) >= proseBlockMin

	d.charCount = 0
	switch {
	case vocabCue && hasProse:
		d.class = models.SectionMixed
	case vocabCue:
		d.class = models.SectionVocabulary
	case hasProse:
		d.class = models.SectionTextPassage
	default:
		d.class = models.SectionOther
	}

	if d.class == models.SectionTextPassage {
		d.charCount = jptext.CountJapanese(body)
	}
}

// longestProseBlock returns the largest count of Japanese characters in any
// stretch of the text uninterrupted by a question marker. Question markers
// delimit prose because enumerated questions, not the passage body, follow
// them.
func (a *Analyzer) longestProseBlock(body string) int {
	bounds := a.questionMarkerPositions(body)
	longest := 0
	start := 0
	for _, b := range append(bounds, len(body)) {
		if b < start {
			continue
		}
		if n := jptext.CountJapanese(body[start:b]); n > longest {
			longest = n
		}
		start = b
	}
	return longest
}

// questionMarkerPositions returns the byte offsets of all question-marker
// matches in body, in ascending order.
func (a *Analyzer) questionMarkerPositions(body string) []int {
	var out []int
	for _, name := range []string{"question.mon_kanji", "question.mon_digit", "question.circled"} {
		re, err := a.reg.Get(name)
		if err != nil {
			continue
		}
		for _, m := range re.FindAllStringIndex(body, -1) {
			out = append(out, m[0])
		}
	}
	// Few positions; insertion sort suffices.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// headRunes returns the first n runes of s.
func headRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
