// Package jptext provides Japanese text helpers shared by the analysis
// pipeline: kanji-numeral parsing, era-year conversion, width conversion,
// and Japanese character classification and counting.
package jptext

import (
	"strings"
	"unicode"
)

// IsKanji reports whether r is a CJK unified ideograph (including extension A
// and the 々 iteration mark, which repeats the previous kanji).
func IsKanji(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		r == '々'
}

// IsHiragana reports whether r is in the hiragana block.
func IsHiragana(r rune) bool {
	return r >= 0x3040 && r <= 0x309F
}

// IsKatakana reports whether r is in the katakana block, including the
// prolonged sound mark ー.
func IsKatakana(r rune) bool {
	return r >= 0x30A0 && r <= 0x30FF
}

// IsJapanese reports whether r is kanji, kana, or a fullwidth form commonly
// found inside Japanese prose (fullwidth digits, letters, and punctuation).
func IsJapanese(r rune) bool {
	if IsKanji(r) || IsHiragana(r) || IsKatakana(r) {
		return true
	}
	// CJK symbols and punctuation, fullwidth/halfwidth forms.
	return (r >= 0x3000 && r <= 0x303F) || (r >= 0xFF00 && r <= 0xFFEF)
}

// IsCountable reports whether r counts toward a passage's character count:
// kanji, hiragana, or katakana. Punctuation, digits, brackets, whitespace,
// the middle dot ・, and the kana iteration marks are excluded.
func IsCountable(r rune) bool {
	switch r {
	case '・', 'ヽ', 'ヾ', 'ゝ', 'ゞ':
		return false
	}
	return IsKanji(r) || IsHiragana(r) || IsKatakana(r)
}

// CountJapanese returns the number of countable Japanese characters in s.
func CountJapanese(s string) int {
	n := 0
	for _, r := range s {
		if IsCountable(r) {
			n++
		}
	}
	return n
}

// ToFullwidth maps a halfwidth ASCII digit or Latin letter to its fullwidth
// form. Other runes pass through unchanged.
func ToFullwidth(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return r - '0' + '０'
	case r >= 'A' && r <= 'Z':
		return r - 'A' + 'Ａ'
	case r >= 'a' && r <= 'z':
		return r - 'a' + 'ａ'
	}
	return r
}

// DigitValue returns the numeric value of an ASCII or fullwidth digit,
// or -1 if r is not a digit.
func DigitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= '０' && r <= '９':
		return int(r - '０')
	}
	return -1
}

var kanjiDigits = map[rune]int{
	'〇': 0, '零': 0,
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
	'元': 1, // era years: 令和元年
}

var kanjiUnits = map[rune]int{
	'十': 10, '百': 100, '千': 1000,
}

// ParseKansuji parses a kanji numeral such as 三, 二十, 八十, 二百三十, or the
// positional form 二〇二四. Returns the value and true on success.
func ParseKansuji(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	runes := []rune(s)

	// Positional form: every rune is a plain digit kanji (二〇二四 → 2024).
	positional := true
	for _, r := range runes {
		if _, ok := kanjiDigits[r]; !ok {
			positional = false
			break
		}
	}
	if positional {
		if len(runes) > 1 {
			v := 0
			for _, r := range runes {
				v = v*10 + kanjiDigits[r]
			}
			return v, true
		}
		return kanjiDigits[runes[0]], true
	}

	// Multiplicative form: digit? unit sequences (二百三十 → 230).
	total, current := 0, 0
	for _, r := range runes {
		if d, ok := kanjiDigits[r]; ok {
			if current != 0 {
				return 0, false
			}
			current = d
			continue
		}
		u, ok := kanjiUnits[r]
		if !ok {
			return 0, false
		}
		if current == 0 {
			current = 1
		}
		total += current * u
		current = 0
	}
	return total + current, true
}

// ParseNumber parses a number written with ASCII digits, fullwidth digits,
// or kanji numerals. Returns the value and true on success.
func ParseNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, digits := 0, 0
	for _, r := range s {
		d := DigitValue(r)
		if d < 0 {
			digits = 0
			break
		}
		v = v*10 + d
		digits++
	}
	if digits > 0 {
		return v, true
	}
	return ParseKansuji(s)
}

var eraStart = map[string]int{
	"明治": 1868,
	"大正": 1912,
	"昭和": 1926,
	"平成": 1989,
	"令和": 2019,
}

// EraToGregorian converts a Japanese era year (era name + year within era)
// to the Gregorian year. Returns 0 and false for unknown eras.
func EraToGregorian(era string, year int) (int, bool) {
	start, ok := eraStart[era]
	if !ok || year < 1 {
		return 0, false
	}
	return start + year - 1, true
}

// NormalizeSpace trims s and collapses internal whitespace runs (including
// ideographic space) to nothing, as attribution fields are written without
// spaces in Japanese.
func NormalizeSpace(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || r == '　' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ContainsDigit reports whether s contains an ASCII or fullwidth digit.
func ContainsDigit(s string) bool {
	for _, r := range s {
		if DigitValue(r) >= 0 {
			return true
		}
	}
	return false
}
