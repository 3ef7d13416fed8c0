package textprep

import (
	"kokugo/internal/jptext"
)

// DocumentMeta holds facts detected in the document head. It is a side
// channel: later pipeline stages never consult it; only the final record
// assembly does.
type DocumentMeta struct {
	// Year is the detected 4-digit Gregorian exam year, 0 when none found.
	Year int

	// School is the detected school name, empty when none found.
	School string
}

// headWindow bounds how far into the document metadata detection looks.
const headWindow = 500 // runes

// ExtractMetadata detects a year and a school name in the first ~500
// characters of the cleaned text. Plausibility of the year is the
// validator's concern, not ours.
func (p *Preprocessor) ExtractMetadata(clean *CleanText) DocumentMeta {
	head := clean.Text
	if runes := []rune(head); len(runes) > headWindow {
		head = string(runes[:headWindow])
	}

	meta := DocumentMeta{Year: p.detectYear(head), School: p.detectSchool(head)}
	p.log.Debug().
		Int("year", meta.Year).
		Str("school", meta.School).
		Msg("Document metadata extracted")
	return meta
}

func (p *Preprocessor) detectYear(head string) int {
	// 4-digit Gregorian, halfwidth or fullwidth.
	if re, err := p.reg.Get("year.year_4digit"); err == nil {
		if m := re.FindStringSubmatch(head); m != nil {
			if y, ok := jptext.ParseNumber(m[1]); ok {
				return y
			}
		}
	}

	// Era years: 令和六年, 平成三十一年.
	if re, err := p.reg.Get("year.era"); err == nil {
		if m := re.FindStringSubmatch(head); m != nil {
			if n, ok := jptext.ParseNumber(m[2]); ok {
				if y, ok := jptext.EraToGregorian(m[1], n); ok {
					return y
				}
			}
		}
	}

	// Positional kanji years: 二〇二四年.
	if re, err := p.reg.Get("year.kanji"); err == nil {
		if m := re.FindStringSubmatch(head); m != nil {
			if y, ok := jptext.ParseKansuji(m[1]); ok {
				return y
			}
		}
	}

	return 0
}

func (p *Preprocessor) detectSchool(head string) string {
	re, err := p.reg.Get("misc.school_name")
	if err != nil {
		return ""
	}
	if m := re.FindStringSubmatch(head); m != nil {
		return m[1]
	}
	return ""
}
