// Package analyzer implements the exam structure extraction pipeline: it
// turns noisy OCR text of a 国語 entrance-exam paper into a validated
// section/question/source tree.
//
// The pipeline is a pure transformation with bounded work in the input
// length: preprocess, split sections, detect questions and sources per
// section, cross-validate, assemble. One call analyses one input; multiple
// analyses may run concurrently because the only shared state, the pattern
// registry, is read-only after initialisation.
//
// A failed analysis produces no partial record. A successful analysis may
// carry warnings; warnings are advisory and accumulate on the record in
// emission order.
package analyzer

import (
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"kokugo/internal/logger"
	"kokugo/internal/patterns"
	"kokugo/internal/textprep"
	"kokugo/pkg/models"
)

// Options configures one Analyzer.
type Options struct {
	// MinInputRunes is the input-length floor below which analysis fails
	// with ErrInputTooShort.
	MinInputRunes int

	// DevMode makes pattern-catalogue problems fatal instead of logged. Set
	// from KOKUGO_DEV_MODE during development so broken catalogue edits
	// cannot slip through as silently degraded output.
	DevMode bool
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{MinInputRunes: 200}
}

// Analyzer runs the extraction pipeline. Safe for concurrent use.
type Analyzer struct {
	reg  *patterns.Registry
	prep *textprep.Preprocessor
	opts Options
	log  zerolog.Logger
}

// New creates an Analyzer backed by the process-wide pattern registry.
func New(opts Options) *Analyzer {
	if opts.MinInputRunes <= 0 {
		opts.MinInputRunes = DefaultOptions().MinInputRunes
	}
	reg := patterns.Default()
	return &Analyzer{
		reg:  reg,
		prep: textprep.New(reg),
		opts: opts,
		log:  logger.WithComponent("analyzer"),
	}
}

// Analyze converts one exam paper's OCR text into an ExamRecord. Values in
// meta take precedence over anything detected in the text. The returned
// record is immutable; callers must not modify it.
func (a *Analyzer) Analyze(text string, meta models.Metadata) (*models.ExamRecord, error) {
	const op = "Analyze"

	n := utf8.RuneCountInString(text)
	if n < a.opts.MinInputRunes {
		return nil, NewAnalysisError(op, ErrInputTooShort,
			fmt.Sprintf("%d characters, floor is %d", n, a.opts.MinInputRunes))
	}

	if a.opts.DevMode {
		if bw := a.reg.BootstrapWarnings(); len(bw) > 0 {
			return nil, NewAnalysisError(op, patterns.ErrUnsafeExpression,
				fmt.Sprintf("%d pattern(s) degraded to fallbacks", len(bw)))
		}
	}

	clean := a.prep.Clean(text)
	docMeta := a.prep.ExtractMetadata(clean)

	warns := &warningList{}
	drafts := a.splitSections(clean.Text, warns)
	for _, d := range drafts {
		a.detectQuestions(clean.Text, d, warns)
		a.extractSource(clean.Text, d, warns)
	}

	drafts = a.repairOversplit(clean.Text, drafts, warns)
	totalChars := a.validateStructure(clean.Text, drafts, warns)

	year := meta.Year
	if year == 0 {
		year = docMeta.Year
	}
	year = validateYear(year, warns)

	school := meta.School
	if school == "" {
		school = docMeta.School
	}

	record := assemble(school, year, totalChars, drafts, warns)
	a.log.Info().
		Int("sections", len(record.Sections)).
		Int("questions", record.TotalQuestions).
		Int("characters", record.TotalCharacters).
		Int("warnings", len(record.Warnings)).
		Msg("Analysis complete")
	return record, nil
}

// assemble produces the final immutable record. No pipeline stage runs after
// this; the record is never mutated once returned.
func assemble(school string, year, totalChars int, drafts []*sectionDraft, warns *warningList) *models.ExamRecord {
	sections := make([]models.Section, 0, len(drafts))
	totalQuestions := 0
	for _, d := range drafts {
		s := models.Section{
			Number:         d.number,
			Classification: d.class,
			Title:          d.title,
			QuestionCount:  len(d.questions),
			Source:         d.source,
			Questions:      d.questions,
			Start:          d.start,
			End:            d.end,
		}
		if s.Questions == nil {
			s.Questions = []models.Question{}
		}
		if d.class == models.SectionTextPassage {
			count := d.charCount
			s.CharacterCount = &count
		}
		totalQuestions += s.QuestionCount
		sections = append(sections, s)
	}

	return &models.ExamRecord{
		School:          school,
		Year:            year,
		TotalCharacters: totalChars,
		TotalQuestions:  totalQuestions,
		Sections:        sections,
		Warnings:        warns.list(),
	}
}
