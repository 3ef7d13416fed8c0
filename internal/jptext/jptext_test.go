package jptext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKansuji(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"一", 1, true},
		{"三", 3, true},
		{"十", 10, true},
		{"二十", 20, true},
		{"二十二", 22, true},
		{"八十", 80, true},
		{"百", 100, true},
		{"二百三十", 230, true},
		{"二〇二四", 2024, true},
		{"元", 1, true},
		{"", 0, false},
		{"漢", 0, false},
		{"一一十", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseKansuji(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{"１２", 12, true},
		{"二十", 20, true},
		{"2024", 2024, true},
		{"２０２４", 2024, true},
		{"x", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestEraToGregorian(t *testing.T) {
	tests := []struct {
		era  string
		year int
		want int
		ok   bool
	}{
		{"令和", 1, 2019, true},
		{"令和", 6, 2024, true},
		{"平成", 31, 2019, true},
		{"昭和", 64, 1989, true},
		{"慶応", 3, 0, false},
		{"令和", 0, 0, false},
	}
	for _, tt := range tests {
		got, ok := EraToGregorian(tt.era, tt.year)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}
}

func TestCountJapanese(t *testing.T) {
	// Kanji, hiragana, and katakana count; punctuation, digits, ASCII,
	// brackets, and whitespace do not.
	assert.Equal(t, 0, CountJapanese("abc 123 ()（）「」、。"))
	assert.Equal(t, 2, CountJapanese("本だ"))
	assert.Equal(t, 4, CountJapanese("カタカナ"))
	assert.Equal(t, 5, CountJapanese("山の上のヲ"))
	// 々 repeats a kanji and counts; the prolonged sound mark ー is kana.
	assert.Equal(t, 2, CountJapanese("「人々」"))
	assert.Equal(t, 4, CountJapanese("ラーメン 123"))
	// The middle dot and the kana iteration marks sit in the kana blocks but
	// are punctuation, not characters.
	assert.Equal(t, 2, CountJapanese("ラ・メ"))
	assert.Equal(t, 0, CountJapanese("・ヽヾゝゞ"))
}

func TestToFullwidth(t *testing.T) {
	assert.Equal(t, '３', ToFullwidth('3'))
	assert.Equal(t, 'Ａ', ToFullwidth('A'))
	assert.Equal(t, 'ｚ', ToFullwidth('z'))
	assert.Equal(t, 'あ', ToFullwidth('あ'))
}

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "森沢明夫", NormalizeSpace(" 森沢　明夫\n"))
	assert.Equal(t, "", NormalizeSpace(" 　 "))
}

func TestContainsDigit(t *testing.T) {
	assert.True(t, ContainsDigit("第3章"))
	assert.True(t, ContainsDigit("第３章"))
	assert.False(t, ContainsDigit("第三章"))
}
