package patterns

// Family groups related pattern definitions.
type Family string

const (
	FamilyYear     Family = "year"
	FamilySection  Family = "section"
	FamilyQuestion Family = "question"
	FamilySource   Family = "source"
	FamilyNoise    Family = "noise"
	FamilyMisc     Family = "misc"
)

// Definition describes one named regular expression in the catalogue.
type Definition struct {
	// Name is the dotted lookup key, e.g. "source.author_title_niyoru".
	Name string

	// Family groups the definition for family-wide scans.
	Family Family

	// Expr is the primary expression. Go's regexp package guarantees
	// linear-time matching, but expressions are still vetted structurally
	// before compilation so catalogue edits cannot reintroduce pathological
	// nesting if the engine is ever swapped.
	Expr string

	// Flags is an inline flag group ("i", "m", "s") applied as a (?flags)
	// prefix at compile time.
	Flags string

	// Critical marks names the pipeline cannot run without. Critical
	// definitions always carry a Fallback, and lookups for them never fail.
	Critical bool

	// Fallback is a simplified, always-correct expression substituted when
	// the primary fails to compile or fails the structural check.
	Fallback string
}

const kanjiNum = "一二三四五六七八九十"

// catalogue is the full pattern inventory. Registered once at bootstrap;
// never mutated afterwards.
var catalogue = []Definition{
	// --- year ---
	{
		Name:     "year.year_4digit",
		Family:   FamilyYear,
		Expr:     `((?:19|20)[0-9]{2}|(?:１９|２０)[０-９]{2})年?`,
		Critical: true,
		Fallback: `((?:19|20)[0-9]{2})`,
	},
	{
		Name:     "year.kanji",
		Family:   FamilyYear,
		Expr:     `([〇一二三四五六七八九]{4})年`,
		Critical: true,
		Fallback: `(二[〇一二三四五六七八九]{3})年`,
	},
	{
		Name:   "year.era",
		Family: FamilyYear,
		Expr:   `(明治|大正|昭和|平成|令和)([元` + kanjiNum + `]{1,3})年`,
	},

	// --- section (大問) markers ---
	{
		Name:     "section.kanji_comma_next",
		Family:   FamilySection,
		Expr:     `([` + kanjiNum + `]{1,3})(?:[、，]|[ 　]+次の)`,
		Critical: true,
		Fallback: `([` + kanjiNum + `])、`,
	},
	{
		Name:   "section.kanji_space_next",
		Family: FamilySection,
		Expr:   `([` + kanjiNum + `]{1,3})[ 　]+次の`,
	},
	{
		Name:   "section.dai_mon",
		Family: FamilySection,
		Expr:   `第([` + kanjiNum + `]{1,3})問`,
	},
	{
		Name:   "section.bracketed",
		Family: FamilySection,
		Expr:   `[【［]([` + kanjiNum + `]{1,3})[】］]`,
	},

	// --- question markers ---
	{
		Name:     "question.mon_kanji",
		Family:   FamilyQuestion,
		Expr:     `問([` + kanjiNum + `]{1,3})`,
		Critical: true,
		Fallback: `問([` + kanjiNum + `])`,
	},
	{
		Name:   "question.mon_digit",
		Family: FamilyQuestion,
		Expr:   `問([0-9０-９]{1,2})`,
	},
	{
		Name:   "question.setsumon",
		Family: FamilyQuestion,
		Expr:   `設問([0-9０-９` + kanjiNum + `]{1,3})`,
	},
	{
		Name:   "question.circled",
		Family: FamilyQuestion,
		Expr:   `([①-⑳])`,
	},
	{
		Name:   "question.paren_digit",
		Family: FamilyQuestion,
		Expr:   `[（(]([0-9０-９]{1,2})[)）]`,
	},

	// --- response-type cues (scanned over a question's local window) ---
	{
		Name:   "question.limit_chars",
		Family: FamilyQuestion,
		Expr:   `([0-9０-９]{1,3}|[` + kanjiNum + `百]{1,4})字(以内|程度)`,
	},
	{
		Name:   "question.one_line",
		Family: FamilyQuestion,
		Expr:   `一行で[^。]{0,30}説明`,
	},
	{
		Name:   "question.choice_kigou",
		Family: FamilyQuestion,
		Expr:   `記号で答え`,
	},
	{
		Name:   "question.choice_select",
		Family: FamilyQuestion,
		Expr:   `次の[^。]{0,40}から(?:一つ)?選`,
	},
	{
		Name:   "question.choice_range",
		Family: FamilyQuestion,
		Expr:   `([ア-コ])[〜～~]([ア-コ])`,
	},
	{
		Name:   "question.choice_letter",
		Family: FamilyQuestion,
		Expr:   `[ア-コ]`,
	},
	{
		Name:   "question.extraction",
		Family: FamilyQuestion,
		Expr:   `抜き出し|書き抜|探して[^。]{0,15}書き`,
	},
	{
		Name:   "question.kanji_reading",
		Family: FamilyQuestion,
		Expr:   `読みがな|読み`,
	},
	{
		Name:   "question.kanji_writing",
		Family: FamilyQuestion,
		Expr:   `カタカナを漢字に|漢字に直し`,
	},
	{
		Name:   "question.fill_blank",
		Family: FamilyQuestion,
		Expr:   `[□☐■]|空欄|空らん`,
	},
	{
		Name:   "question.descriptive",
		Family: FamilyQuestion,
		Expr:   `説明しなさい|述べなさい|答えなさい`,
	},
	{
		Name:   "question.meaning",
		Family: FamilyQuestion,
		Expr:   `意味を答え`,
	},

	// --- source attributions, descending specificity ---
	{
		Name:   "source.author_title_shoshu",
		Family: FamilySource,
		Expr:   `[（(]([^（）()「」『』\n]{1,25})「([^「」\n]{1,60})」[（(]『([^『』\n]{1,40})』[^（）()\n]{0,20}所収[)）][^（）()\n]{0,6}による[)）]`,
	},
	{
		Name:     "source.author_title_niyoru",
		Family:   FamilySource,
		Expr:     `[（(]([^（）()「」『』\n]{1,25})『([^『』\n]{1,60})』(?:による|より)[)）]`,
		Critical: true,
		Fallback: `[（(]([^（）()『』\n]{1,25})『([^『』\n]{1,60})』による[)）]`,
	},
	{
		Name:   "source.author_kagikakko",
		Family: FamilySource,
		Expr:   `[（(]([^（）()「」『』\n]{1,25})「([^「」\n]{1,60})」(?:による|より)?[)）]`,
	},
	{
		Name:   "source.author_no_bun",
		Family: FamilySource,
		Expr:   `([一-龯ぁ-んァ-ヶ々]{2,12})の文(?:章)?による`,
	},

	// --- noise (answer sheets, form banners, instructions) ---
	{
		Name:   "noise.answer_sheet",
		Family: FamilyNoise,
		Expr:   `解答用紙|解答らん|答案用紙`,
	},
	{
		Name:   "noise.form_banner",
		Family: FamilyNoise,
		Expr:   `氏名|受験番号|得点|採点`,
	},
	{
		Name:   "noise.instruction",
		Family: FamilyNoise,
		Expr:   `注意|以下余白|指示があるまで`,
	},

	// --- misc ---
	{
		Name:   "misc.page_banner",
		Family: FamilyMisc,
		Expr:   `(^|\n)[ 　]*===[ 　]*ページ[ 　]*[0-9０-９]{1,4}[ 　]*===[ 　]*(\n|$)`,
	},
	{
		Name:   "misc.school_name",
		Family: FamilyMisc,
		Expr:   `([一-龯ぁ-んァ-ヶＡ-Ｚ々]{2,15}(?:中学校|中等教育学校|学園|学院))`,
	},
	{
		Name:   "misc.vocab_cue",
		Family: FamilyMisc,
		Expr:   `漢字の読み|カタカナを漢字に|熟語の|慣用句の|読みがなを書き`,
	},
}
