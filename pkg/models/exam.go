package models

// SectionClass is the coarse classification of a top-level exam section (大問).
type SectionClass string

const (
	// SectionTextPassage is a section whose body is long-form prose to be read.
	SectionTextPassage SectionClass = "text_passage"
	// SectionVocabulary is a kanji-reading/writing or lexical-item section.
	SectionVocabulary SectionClass = "vocabulary"
	// SectionMixed contains both a reading passage and vocabulary drills.
	SectionMixed SectionClass = "mixed"
	// SectionOther is anything that fits none of the above.
	SectionOther SectionClass = "other"
)

// ResponseType is the coarse classification of how a question is answered.
type ResponseType string

const (
	ResponseDescriptiveFree    ResponseType = "descriptive_free"
	ResponseDescriptiveBounded ResponseType = "descriptive_bounded"
	ResponseChoice             ResponseType = "choice"
	ResponseExtraction         ResponseType = "extraction"
	ResponseKanjiReading       ResponseType = "kanji_reading"
	ResponseKanjiWriting       ResponseType = "kanji_writing"
	ResponseFillBlank          ResponseType = "fill_blank"
	ResponseVocabularyMeaning  ResponseType = "vocabulary_meaning"
	ResponseUnknown            ResponseType = "unknown"
)

// Question is one enumerated question (問) within a section.
type Question struct {
	// Number is the question number parsed from the marker, 1-based.
	Number int `json:"number"`

	// Marker is the surface form of the question marker, e.g. "問三" or "①".
	Marker string `json:"marker"`

	// ResponseType classifies how the answer is produced.
	ResponseType ResponseType `json:"response_type"`

	// CharacterLimit is set only for descriptive_bounded answers ("八十字以内" → 80).
	CharacterLimit *int `json:"character_limit,omitempty"`

	// ChoiceCount is set only for choice questions; always ≥2 when present.
	ChoiceCount *int `json:"choice_count,omitempty"`
}

// Source is the end-of-passage attribution naming author and work.
type Source struct {
	// Author is the attributed author name. Never empty on an emitted Source.
	Author string `json:"author"`

	// Work is the attributed work title. Never empty on an emitted Source.
	Work string `json:"work"`

	// Container is the magazine or anthology the work appeared in, when given
	// (「…」（『図書』所収）style attributions).
	Container string `json:"container,omitempty"`

	// Raw is the exact attribution substring the source was parsed from.
	Raw string `json:"raw,omitempty"`
}

// Section is one top-level section (大問) of the exam paper.
type Section struct {
	// Number is the section number in document order, 1-based and strictly increasing.
	Number int `json:"number"`

	// Classification is the section kind.
	Classification SectionClass `json:"classification"`

	// Title is the short surface string of the section marker, e.g. "一、".
	Title string `json:"title"`

	// CharacterCount counts CJK/kana characters of the passage body. Set only
	// for text_passage sections; absent otherwise.
	CharacterCount *int `json:"character_count,omitempty"`

	// QuestionCount is len(Questions); kept explicit for the JSON surface.
	QuestionCount int `json:"question_count"`

	// Source is the attributed bibliographic source, when one was extracted.
	Source *Source `json:"source,omitempty"`

	// Questions holds the enumerated questions in document order.
	Questions []Question `json:"questions"`

	// Start and End delimit the section's span in the cleaned text, as byte
	// offsets. Spans of sibling sections are disjoint and ordered.
	Start int `json:"-"`
	End   int `json:"-"`
}

// ExamRecord is the immutable result of analysing one exam paper.
// It is assembled once by the analyzer and never mutated afterwards.
type ExamRecord struct {
	// School is the school name when one was detected or supplied via hints.
	School string `json:"school,omitempty"`

	// Year is the 4-digit Gregorian exam year, 0 when unknown.
	Year int `json:"year,omitempty"`

	// TotalCharacters sums CharacterCount over text_passage sections.
	TotalCharacters int `json:"total_characters"`

	// TotalQuestions sums QuestionCount over all sections.
	TotalQuestions int `json:"total_questions"`

	// Sections holds the detected sections in document order.
	Sections []Section `json:"sections"`

	// Warnings accumulates structure warnings in emission order. Warnings are
	// advisory; a record with warnings is still a successful analysis.
	Warnings []string `json:"warnings"`
}

// Metadata is the optional bag of caller-supplied facts about an input.
// Values here take precedence over anything detected in the text.
type Metadata struct {
	School     string `json:"school,omitempty" yaml:"school"`
	Year       int    `json:"year,omitempty" yaml:"year"`
	SourcePath string `json:"source_path,omitempty" yaml:"-"`
}
