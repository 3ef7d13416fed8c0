package analyzer

import (
	"unicode/utf8"

	"kokugo/internal/jptext"
	"kokugo/pkg/models"
)

// responseWindow is how many runes after a question marker are inspected to
// classify the response type.
const responseWindow = 300

// questionFamilies orders question-marker patterns from most to least
// explicit. The dominant family is the one with the most matches in a
// section; ties go to the earlier entry.
var questionFamilies = []struct {
	name     string
	priority int
}{
	{"question.mon_kanji", 5},
	{"question.mon_digit", 4},
	{"question.setsumon", 3},
	{"question.circled", 2},
	{"question.paren_digit", 1},
}

// detectQuestions enumerates the questions of one section draft, classifies
// each response type, and validates numbering continuity.
func (a *Analyzer) detectQuestions(text string, d *sectionDraft, warns *warningList) {
	body := text[d.start:d.end]
	cands := a.questionCandidates(body)
	cands = dropRegressions(cands, d.number, warns)

	questions := make([]models.Question, 0, len(cands))
	for _, c := range cands {
		q := models.Question{
			Number: c.number,
			Marker: c.surface,
		}
		a.classifyResponse(body, c, d.class, &q)
		questions = append(questions, q)
	}

	d.questions = questions
	a.log.Debug().
		Int("section", d.number).
		Int("questions", len(questions)).
		Msg("Questions detected")
}

// questionCandidates scans all question families over the section body,
// keeps the dominant family, and adds circled-digit sub-enumerations that
// precede the dominant family's first marker (those cannot be sub-items of
// any question).
func (a *Analyzer) questionCandidates(body string) []markerCandidate {
	byFamily := make(map[string][]markerCandidate, len(questionFamilies))
	for _, f := range questionFamilies {
		re, err := a.reg.Get(f.name)
		if err != nil {
			continue
		}
		for _, m := range re.FindAllStringSubmatchIndex(body, -1) {
			// 設問一 embeds 問一; skip mon matches that sit inside a 設問 marker.
			if f.name == "question.mon_kanji" || f.name == "question.mon_digit" {
				if precededBy(body, m[0], '設') {
					continue
				}
			}
			surface := body[m[0]:m[1]]
			num, ok := parseQuestionNumber(f.name, body[m[2]:m[3]])
			if !ok || num < 1 {
				continue
			}
			byFamily[f.name] = append(byFamily[f.name], markerCandidate{
				pos:      m[0],
				surface:  surface,
				number:   num,
				priority: f.priority,
				pattern:  f.name,
			})
		}
	}

	dominant := ""
	for _, f := range questionFamilies {
		if len(byFamily[f.name]) > len(byFamily[dominant]) {
			dominant = f.name
		}
	}
	if dominant == "" {
		return nil
	}

	kept := byFamily[dominant]
	if dominant != "question.circled" && len(byFamily["question.circled"]) > 0 {
		first := kept[0].pos
		for _, c := range byFamily["question.circled"] {
			if c.pos < first {
				kept = append(kept, c)
			}
		}
	}
	sortCandidates(kept)
	return kept
}

func precededBy(body string, pos int, r rune) bool {
	prev, _ := utf8.DecodeLastRuneInString(body[:pos])
	return prev == r
}

func parseQuestionNumber(family, group string) (int, bool) {
	if family == "question.circled" {
		runes := []rune(group)
		if len(runes) == 1 && runes[0] >= '①' && runes[0] <= '⑳' {
			return int(runes[0]-'①') + 1, true
		}
		return 0, false
	}
	return jptext.ParseNumber(group)
}

// dropRegressions removes markers whose number is not strictly greater than
// the previous kept one (e.g. a 問三 re-quoted inside the passage after 問五),
// warning question_regression for each drop.
func dropRegressions(cands []markerCandidate, section int, warns *warningList) []markerCandidate {
	out := cands[:0:0]
	last := 0
	for _, c := range cands {
		if c.number <= last {
			warns.addf("%s(section=%d, marker=%s)", WarnQuestionRegress, section, c.surface)
			continue
		}
		out = append(out, c)
		last = c.number
	}
	return out
}

// gojuon maps the choice letters ア..コ to their ordinal in the enumeration.
var gojuon = map[rune]int{
	'ア': 0, 'イ': 1, 'ウ': 2, 'エ': 3, 'オ': 4,
	'カ': 5, 'キ': 6, 'ク': 7, 'ケ': 8, 'コ': 9,
}

// classifyResponse assigns the response type from the marker's local window.
// The cue checks run in fixed order; the first match wins.
func (a *Analyzer) classifyResponse(body string, c markerCandidate, class models.SectionClass, q *models.Question) {
	window := headRunes(body[c.pos:], responseWindow)
	match := func(name string) bool {
		re, err := a.reg.Get(name)
		if err != nil {
			return false
		}
		return re.MatchString(window)
	}

	switch {
	case match("question.limit_chars") || match("question.one_line"):
		q.ResponseType = models.ResponseDescriptiveBounded
		if re, err := a.reg.Get("question.limit_chars"); err == nil {
			if m := re.FindStringSubmatch(window); m != nil {
				if n, ok := jptext.ParseNumber(m[1]); ok && n > 0 {
					q.CharacterLimit = &n
				}
			}
		}

	case match("question.choice_kigou") || match("question.choice_select"):
		q.ResponseType = models.ResponseChoice
		if n := a.countChoices(window); n >= 2 {
			q.ChoiceCount = &n
		}

	case match("question.extraction"):
		q.ResponseType = models.ResponseExtraction

	case (class == models.SectionVocabulary || class == models.SectionMixed) && match("question.kanji_reading"):
		q.ResponseType = models.ResponseKanjiReading

	case match("question.kanji_writing"):
		q.ResponseType = models.ResponseKanjiWriting

	case match("question.fill_blank"):
		q.ResponseType = models.ResponseFillBlank

	case match("question.descriptive"):
		q.ResponseType = models.ResponseDescriptiveFree

	case match("question.meaning"):
		q.ResponseType = models.ResponseVocabularyMeaning

	default:
		q.ResponseType = models.ResponseUnknown
	}
}

// countChoices derives the number of options offered. A letter range like
// ア〜オ expands to its full width; otherwise distinct choice letters in the
// window are counted.
func (a *Analyzer) countChoices(window string) int {
	if re, err := a.reg.Get("question.choice_range"); err == nil {
		if m := re.FindStringSubmatch(window); m != nil {
			lo, okLo := gojuon[[]rune(m[1])[0]]
			hi, okHi := gojuon[[]rune(m[2])[0]]
			if okLo && okHi && hi >= lo {
				return hi - lo + 1
			}
		}
	}

	distinct := make(map[rune]bool)
	if re, err := a.reg.Get("question.choice_letter"); err == nil {
		for _, s := range re.FindAllString(window, -1) {
			r := []rune(s)[0]
			if _, ok := gojuon[r]; ok {
				distinct[r] = true
			}
		}
	}
	return len(distinct)
}

// validateContinuity checks that a section's question numbers form a prefix
// of the naturals, warning question_gap with the missing numbers when they
// do not. Runs after oversplit repair so merged sections are judged whole.
func validateContinuity(d *sectionDraft, warns *warningList) {
	if len(d.questions) == 0 {
		return
	}
	present := make(map[int]bool, len(d.questions))
	max := 0
	for _, q := range d.questions {
		present[q.Number] = true
		if q.Number > max {
			max = q.Number
		}
	}
	var missing []int
	for n := 1; n <= max; n++ {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		warns.addf("%s(section=%d, missing=%s)", WarnQuestionGap, d.number, formatIntList(missing))
	}
}
