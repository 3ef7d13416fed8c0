package analyzer

import (
	"strings"
	"unicode/utf8"

	"kokugo/internal/jptext"
	"kokugo/pkg/models"
)

// Source search-region bounds.
const (
	sourceRegionShare = 0.15 // fraction of the section tail searched
	sourceRegionMax   = 2000 // cap, in runes
	maxAuthorRunes    = 20
	maxWorkRunes      = 60
)

// sourcePatterns orders attribution patterns by descending specificity. When
// the same (author, work) is matched by more than one, the earlier entry
// wins.
var sourcePatterns = []struct {
	name         string
	hasContainer bool
	authorOnly   bool
}{
	{name: "source.author_title_shoshu", hasContainer: true},
	{name: "source.author_title_niyoru"},
	{name: "source.author_kagikakko"},
	{name: "source.author_no_bun", authorOnly: true},
}

type sourceCandidate struct {
	pos         int
	specificity int // index into sourcePatterns; lower is more specific
	src         models.Source
	authorOnly  bool
}

// extractSource finds at most one bibliographic attribution in the tail of
// the section. End-of-passage credits sit at the bottom of the passage;
// restricting the search region keeps body text from producing false hits.
func (a *Analyzer) extractSource(text string, d *sectionDraft, warns *warningList) {
	body := text[d.start:d.end]
	region, regionOff := tailRegion(body)

	var cands []sourceCandidate
	for spec, p := range sourcePatterns {
		re, err := a.reg.Get(p.name)
		if err != nil {
			continue
		}
		for _, m := range re.FindAllStringSubmatchIndex(region, -1) {
			c := sourceCandidate{
				pos:         regionOff + m[0],
				specificity: spec,
				authorOnly:  p.authorOnly,
			}
			c.src.Raw = region[m[0]:m[1]]
			c.src.Author = jptext.NormalizeSpace(region[m[2]:m[3]])
			if !p.authorOnly {
				c.src.Work = normalizeWork(region[m[4]:m[5]])
			}
			if p.hasContainer {
				c.src.Container = jptext.NormalizeSpace(region[m[6]:m[7]])
			}
			if !plausibleSource(&c) {
				continue
			}
			cands = append(cands, c)
		}
	}

	cands = dedupeSources(cands)

	full := cands[:0:0]
	var authorOnly *sourceCandidate
	for i := range cands {
		if cands[i].authorOnly {
			if authorOnly == nil || cands[i].pos > authorOnly.pos {
				authorOnly = &cands[i]
			}
			continue
		}
		full = append(full, cands[i])
	}

	if len(full) == 0 {
		// Author recovered but no work: emit no Source, just the warning.
		if authorOnly != nil {
			warns.addf("%s(section=%d, author=%s)", WarnSourceWorkMissing, d.number, authorOnly.src.Author)
		}
		return
	}

	// Closest to the section end wins; the rest are reported.
	best := 0
	for i := 1; i < len(full); i++ {
		if full[i].pos > full[best].pos {
			best = i
		}
	}
	for i := range full {
		if i != best {
			warns.addf("%s(section=%d, discarded=%s)", WarnSourceAmbiguous, d.number, full[i].src.Work)
		}
	}
	chosen := full[best].src
	d.source = &chosen
}

// tailRegion returns the last 15% of the body, capped at 2000 runes, plus
// the byte offset of the region within the body.
func tailRegion(body string) (string, int) {
	total := utf8.RuneCountInString(body)
	n := int(float64(total) * sourceRegionShare)
	if n > sourceRegionMax {
		n = sourceRegionMax
	}
	if n >= total {
		return body, 0
	}
	skip := total - n
	off := 0
	for i := 0; i < skip; i++ {
		_, size := utf8.DecodeRuneInString(body[off:])
		off += size
	}
	return body[off:], off
}

func normalizeWork(s string) string {
	s = jptext.NormalizeSpace(s)
	s = strings.TrimSuffix(s, "による")
	s = strings.TrimSuffix(s, "より")
	return s
}

// plausibleSource applies the rejection rules: a non-empty author of sane
// length with no digits, and a work within title length.
func plausibleSource(c *sourceCandidate) bool {
	if c.src.Author == "" {
		return false
	}
	if utf8.RuneCountInString(c.src.Author) > maxAuthorRunes {
		return false
	}
	if jptext.ContainsDigit(c.src.Author) {
		return false
	}
	if c.authorOnly {
		return true
	}
	if c.src.Work == "" {
		return false
	}
	return utf8.RuneCountInString(c.src.Work) <= maxWorkRunes
}

// dedupeSources collapses candidates sharing (author, work), keeping the
// most specific match.
func dedupeSources(cands []sourceCandidate) []sourceCandidate {
	type key struct{ author, work string }
	bestBy := make(map[key]int)
	var order []key
	for i := range cands {
		k := key{cands[i].src.Author, cands[i].src.Work}
		if j, ok := bestBy[k]; ok {
			if cands[i].specificity < cands[j].specificity {
				bestBy[k] = i
			}
			continue
		}
		bestBy[k] = i
		order = append(order, k)
	}
	out := make([]sourceCandidate, 0, len(order))
	for _, k := range order {
		out = append(out, cands[bestBy[k]])
	}
	return out
}
