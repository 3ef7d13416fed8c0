package analyzer

import (
	"time"
	"unicode/utf8"

	"kokugo/internal/jptext"
	"kokugo/pkg/models"
)

const (
	// oversplitMaxRunes bounds how long a section may be and still be folded
	// back into its predecessor by the oversplit repair.
	oversplitMaxRunes = 800

	// sourceMissingMin is the character count above which a text passage is
	// expected to carry an attribution.
	sourceMissingMin = 1000

	// minPlausibleYear bounds the accepted exam year range from below; the
	// upper bound is the current year.
	minPlausibleYear = 1980
)

// repairOversplit merges a section back into its predecessor when question
// numbering continues across the boundary: a mis-detected marker inside a
// passage splits one 大問 into two, and the continuation section then starts
// at question N+1 instead of 1. Only short, source-less sections qualify;
// repairs never delete data.
func (a *Analyzer) repairOversplit(text string, drafts []*sectionDraft, warns *warningList) []*sectionDraft {
	out := drafts[:0:0]
	for _, d := range drafts {
		if len(out) == 0 {
			out = append(out, d)
			continue
		}
		prev := out[len(out)-1]
		if !continuesQuestions(prev, d) || d.source != nil || !shortSection(text, d) {
			out = append(out, d)
			continue
		}

		prev.end = d.end
		prev.questions = append(prev.questions, d.questions...)
		a.classify(text, prev)
		warns.addf("%s(section=%d)", WarnSectionOversplit, prev.number)
		a.log.Info().
			Int("into", prev.number).
			Int("merged", d.number).
			Msg("Merged oversplit section")
	}
	return out
}

func continuesQuestions(prev, next *sectionDraft) bool {
	if len(prev.questions) == 0 || len(next.questions) == 0 {
		return false
	}
	last := prev.questions[len(prev.questions)-1].Number
	first := next.questions[0].Number
	return first == last+1 && first > 1
}

func shortSection(text string, d *sectionDraft) bool {
	return utf8.RuneCountInString(text[d.start:d.end]) < oversplitMaxRunes
}

// validateStructure runs the post-repair cross-checks: per-section question
// continuity, missing attributions on long passages, and the character-count
// accounting identity. It returns the total character count.
func (a *Analyzer) validateStructure(text string, drafts []*sectionDraft, warns *warningList) int {
	total := 0
	recount := 0
	for _, d := range drafts {
		validateContinuity(d, warns)

		if d.class == models.SectionTextPassage {
			total += d.charCount
			recount += jptext.CountJapanese(text[d.start:d.end])
			if d.charCount >= sourceMissingMin && d.source == nil {
				warns.addf("%s(section=%d)", WarnSourceMissing, d.number)
			}
		}
	}

	// The totals are derived from the same spans, so a mismatch means an
	// accounting bug upstream. Never repaired silently.
	if total != recount {
		warns.add(WarnCharCountMismatch)
	}
	return total
}

// validateYear drops years outside [1980, current year], warning
// year_implausible. Returns the year to record, 0 when dropped or absent.
func validateYear(year int, warns *warningList) int {
	if year == 0 {
		return 0
	}
	if year < minPlausibleYear || year > time.Now().Year() {
		warns.addf("%s(%d)", WarnYearImplausible, year)
		return 0
	}
	return year
}
