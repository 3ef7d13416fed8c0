package textprep

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kokugo/internal/patterns"
)

func newTestPreprocessor(t *testing.T) *Preprocessor {
	t.Helper()
	return New(patterns.Default())
}

func TestCleanStripsPageBanners(t *testing.T) {
	p := newTestPreprocessor(t)
	raw := "一、次の文章を読みなさい。\n=== ページ 2 ===\n\n少年は本を読んだ。"

	clean := p.Clean(raw)
	assert.NotContains(t, clean.Text, "ページ")
	assert.Contains(t, clean.Text, "一、次の文章を読みなさい。")
	assert.Contains(t, clean.Text, "少年は本を読んだ。")
}

func TestCleanWidensDigitsInJapaneseContext(t *testing.T) {
	p := newTestPreprocessor(t)

	// Halfwidth digits flanked by Japanese become fullwidth.
	clean := p.Clean("全体で80字以内で答えなさい。")
	assert.Contains(t, clean.Text, "８０字")

	// Halfwidth runs not flanked by Japanese stay halfwidth.
	clean = p.Clean("2024 copyright notice 少年は本を読んだ。")
	assert.Contains(t, clean.Text, "2024")
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	p := newTestPreprocessor(t)

	clean := p.Clean("問一　 　次の文に答えなさい。")
	assert.Contains(t, clean.Text, "問一 次の文に答えなさい。")

	// A run containing a newline collapses to a single newline.
	clean = p.Clean("少年は本を読んだ。 \n \nそして眠った。")
	assert.Contains(t, clean.Text, "読んだ。\nそして")
}

func TestCleanRemovesInvisibles(t *testing.T) {
	p := newTestPreprocessor(t)
	clean := p.Clean("少年\u200bは\u200c本\u200dを\u00ad読んだ\ufeff。")
	assert.Equal(t, "少年は本を読んだ。", clean.Text)
}

func TestCleanRewritesStraightQuotes(t *testing.T) {
	p := newTestPreprocessor(t)

	clean := p.Clean("彼は\"ありがとう\"と言った。")
	assert.Contains(t, clean.Text, "「ありがとう」")

	// Quotes in non-Japanese context are untouched.
	clean = p.Clean(`say "hello" now 少年は本を読んだ。`)
	assert.Contains(t, clean.Text, `"hello"`)
}

func TestCleanCollapsesRepeatedPunct(t *testing.T) {
	p := newTestPreprocessor(t)
	clean := p.Clean("そうだ、、、と思った。。")
	assert.Equal(t, "そうだ、と思った。", clean.Text)

	// The prolonged sound mark is kana, not punctuation.
	clean = p.Clean("ラーーメン")
	assert.Equal(t, "ラーーメン", clean.Text)
}

func TestCleanIdempotent(t *testing.T) {
	p := newTestPreprocessor(t)
	raw := "一、次の文章を読みなさい。\n=== ページ 1 ===\n彼は\"ありがとう\"と言った、、、80字以内。\n\n　問一　答えなさい。"

	once := p.Clean(raw)
	twice := p.Clean(once.Text)
	assert.Equal(t, once.Text, twice.Text)
}

func TestRawOffset(t *testing.T) {
	p := newTestPreprocessor(t)
	raw := "=== ページ 1 ===\n一、次の文章を読みなさい。"

	clean := p.Clean(raw)
	idx := strings.Index(clean.Text, "一、")
	require.GreaterOrEqual(t, idx, 0)

	rawIdx := clean.RawOffset(idx)
	assert.Equal(t, strings.Index(raw, "一、"), rawIdx)
}

func TestExtractMetadataYear(t *testing.T) {
	p := newTestPreprocessor(t)
	tests := []struct {
		name string
		head string
		want int
	}{
		{"gregorian", "2024年度 入学試験問題 国語", 2024},
		{"fullwidth", "２０２３年度入学試験", 2023},
		{"kanji", "二〇二四年度入学試験問題", 2024},
		{"era", "令和六年度入学試験問題", 2024},
		{"none", "入学試験問題 国語", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := p.ExtractMetadata(p.Clean(tt.head + "\n少年は本を読んだ。"))
			assert.Equal(t, tt.want, meta.Year)
		})
	}
}

func TestExtractMetadataSchool(t *testing.T) {
	p := newTestPreprocessor(t)

	meta := p.ExtractMetadata(p.Clean("開成中学校 入学試験問題 国語"))
	assert.Equal(t, "開成中学校", meta.School)

	meta = p.ExtractMetadata(p.Clean("入学試験問題 国語"))
	assert.Equal(t, "", meta.School)
}

func TestExtractMetadataHeadWindowOnly(t *testing.T) {
	p := newTestPreprocessor(t)

	// A year past the head window is not document metadata.
	body := strings.Repeat("少年は図書館で本を読み続けた。", 40) + "2024年"
	meta := p.ExtractMetadata(p.Clean(body))
	assert.Equal(t, 0, meta.Year)
}
