// Package textprep normalises raw OCR text into CleanText suitable for
// structural analysis. Cleaning preserves every structural cue (digits,
// kanji, kana, brackets) and keeps an offset map so that any position in the
// cleaned text can be traced back to the raw input.
package textprep

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"kokugo/internal/jptext"
	"kokugo/internal/logger"
	"kokugo/internal/patterns"
)

// CleanText is the normalised form of one raw OCR input. Text is the cleaned
// string; every rune of Text maps back to a non-empty region of the raw
// input via RawOffset.
type CleanText struct {
	Text string

	// runeStarts[i] is the byte offset in Text of rune i.
	runeStarts []int
	// rawOffsets[i] is the byte offset in the raw input that rune i of Text
	// was derived from.
	rawOffsets []int
}

// RawOffset maps a byte offset in the cleaned text back to the byte offset
// of the originating region in the raw input.
func (c *CleanText) RawOffset(cleanByteOff int) int {
	if len(c.runeStarts) == 0 {
		return 0
	}
	i := sort.Search(len(c.runeStarts), func(i int) bool {
		return c.runeStarts[i] > cleanByteOff
	})
	if i > 0 {
		i--
	}
	return c.rawOffsets[i]
}

// mrune is a rune carrying the byte offset of its origin in the raw input.
type mrune struct {
	r   rune
	off int
}

// Preprocessor performs the ordered OCR normalisations.
type Preprocessor struct {
	reg *patterns.Registry
	log zerolog.Logger
}

// New creates a preprocessor backed by the given pattern registry.
func New(reg *patterns.Registry) *Preprocessor {
	return &Preprocessor{
		reg: reg,
		log: logger.WithComponent("textprep"),
	}
}

// Clean applies the normalisations in order:
//  1. strip page-banner lines (=== ページ N ===)
//  2. map halfwidth digits/Latin to fullwidth inside Japanese context
//  3. collapse whitespace runs (newline wins over space)
//  4. remove zero-width characters and soft hyphens
//  5. rewrite straight ASCII quotes between Japanese characters to 「」
//  6. collapse repeated punctuation
//
// Clean is idempotent: Clean(Clean(x).Text).Text == Clean(x).Text.
func (p *Preprocessor) Clean(raw string) *CleanText {
	rs := make([]mrune, 0, len(raw)/2)
	for i, r := range raw {
		rs = append(rs, mrune{r: r, off: i})
	}

	rs = p.stripPageBanners(rs)
	rs = widenInJapaneseContext(rs)
	rs = collapseWhitespace(rs)
	rs = removeInvisibles(rs)
	rs = rewriteStraightQuotes(rs)
	rs = collapseRepeatedPunct(rs)

	var b strings.Builder
	runeStarts := make([]int, len(rs))
	rawOffsets := make([]int, len(rs))
	for i, m := range rs {
		runeStarts[i] = b.Len()
		rawOffsets[i] = m.off
		b.WriteRune(m.r)
	}

	clean := &CleanText{Text: b.String(), runeStarts: runeStarts, rawOffsets: rawOffsets}
	p.log.Debug().
		Int("raw_bytes", len(raw)).
		Int("clean_runes", len(rs)).
		Msg("Text cleaned")
	return clean
}

// stripPageBanners drops lines matching the page-banner pattern together with
// the empty lines the banner introduced after it.
func (p *Preprocessor) stripPageBanners(rs []mrune) []mrune {
	banner, err := p.reg.Get("misc.page_banner")
	if err != nil {
		return rs
	}

	out := rs[:0:0]
	lineStart := 0
	dropBlank := false
	flush := func(start, end int) { // end exclusive, includes trailing newline
		line := runesToString(rs[start:end])
		trimmed := strings.Trim(line, " 　\n")
		if banner.MatchString(strings.TrimRight(line, "\n")) && strings.Contains(line, "ページ") {
			dropBlank = true
			return
		}
		if dropBlank && trimmed == "" {
			return
		}
		dropBlank = false
		out = append(out, rs[start:end]...)
	}
	for i, m := range rs {
		if m.r == '\n' {
			flush(lineStart, i+1)
			lineStart = i + 1
		}
	}
	if lineStart < len(rs) {
		flush(lineStart, len(rs))
	}
	return out
}

func runesToString(rs []mrune) string {
	var b strings.Builder
	for _, m := range rs {
		b.WriteRune(m.r)
	}
	return b.String()
}

func isHalfwidthAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// widenInJapaneseContext converts maximal runs of halfwidth digits/Latin to
// fullwidth when the runes on both sides of the run are Japanese. The
// reverse direction is never applied.
func widenInJapaneseContext(rs []mrune) []mrune {
	for i := 0; i < len(rs); {
		if !isHalfwidthAlnum(rs[i].r) {
			i++
			continue
		}
		j := i
		for j < len(rs) && isHalfwidthAlnum(rs[j].r) {
			j++
		}
		before := i > 0 && jptext.IsJapanese(rs[i-1].r)
		after := j < len(rs) && jptext.IsJapanese(rs[j].r)
		if before && after {
			for k := i; k < j; k++ {
				rs[k].r = jptext.ToFullwidth(rs[k].r)
			}
		}
		i = j
	}
	return rs
}

func isCollapsibleSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '　' || r == '\n' || r == '\r'
}

// collapseWhitespace reduces each whitespace run to a single rune: a newline
// if the run contained one, an ASCII space otherwise.
func collapseWhitespace(rs []mrune) []mrune {
	out := rs[:0:0]
	for i := 0; i < len(rs); {
		if !isCollapsibleSpace(rs[i].r) {
			out = append(out, rs[i])
			i++
			continue
		}
		j := i
		hasNL := false
		for j < len(rs) && isCollapsibleSpace(rs[j].r) {
			if rs[j].r == '\n' {
				hasNL = true
			}
			j++
		}
		kept := mrune{r: ' ', off: rs[i].off}
		if hasNL {
			kept.r = '\n'
		}
		out = append(out, kept)
		i = j
	}
	return out
}

// removeInvisibles drops zero-width characters, stray byte-order marks, and
// soft hyphens.
func removeInvisibles(rs []mrune) []mrune {
	out := rs[:0:0]
	for _, m := range rs {
		switch m.r {
		case '\u200b', '\u200c', '\u200d', '\ufeff', '\u00ad':
			continue
		}
		out = append(out, m)
	}
	return out
}

// rewriteStraightQuotes turns straight ASCII quotes that sit between Japanese
// characters into corner brackets, alternating 「 and 」. The Japanese
// brackets 「」『』 themselves are never touched.
func rewriteStraightQuotes(rs []mrune) []mrune {
	open := true
	for i, m := range rs {
		if m.r != '"' && m.r != '\'' {
			continue
		}
		prevJP := i > 0 && jptext.IsCountable(rs[i-1].r)
		nextJP := i+1 < len(rs) && jptext.IsCountable(rs[i+1].r)
		if !prevJP && !nextJP {
			continue
		}
		if open {
			rs[i].r = '「'
		} else {
			rs[i].r = '」'
		}
		open = !open
	}
	return rs
}

func isRepeatablePunct(r rune) bool {
	switch r {
	case '、', '。', '・', '，', '．', '—', '―', '…':
		return true
	}
	return false
}

// collapseRepeatedPunct reduces runs of the same punctuation mark (、、、
// 。。 ——) to a single instance. The prolonged sound mark ー is kana, not
// punctuation, and is left alone.
func collapseRepeatedPunct(rs []mrune) []mrune {
	out := rs[:0:0]
	for i := 0; i < len(rs); {
		out = append(out, rs[i])
		if !isRepeatablePunct(rs[i].r) {
			i++
			continue
		}
		j := i + 1
		for j < len(rs) && rs[j].r == rs[i].r {
			j++
		}
		i = j
	}
	return out
}
