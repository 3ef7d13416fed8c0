package analyzer

import (
	"fmt"
	"strconv"
	"strings"
)

// Warning identifiers. These are the stable, machine-matchable prefixes of
// the strings accumulated on ExamRecord.Warnings.
const (
	WarnNoSections        = "no_sections_detected"
	WarnSectionOversplit  = "section_oversplit"
	WarnQuestionGap       = "question_gap"
	WarnQuestionRegress   = "question_regression"
	WarnSourceMissing     = "source_missing"
	WarnSourceAmbiguous   = "source_ambiguous"
	WarnSourceWorkMissing = "source_work_missing"
	WarnCharCountMismatch = "char_count_mismatch"
	WarnYearImplausible   = "year_implausible"
)

// warningList accumulates structure warnings in emission order. Warnings are
// advisory and never change the fatal/non-fatal classification of a run.
type warningList struct {
	entries []string
}

func (w *warningList) add(s string) {
	w.entries = append(w.entries, s)
}

func (w *warningList) addf(format string, args ...interface{}) {
	w.entries = append(w.entries, fmt.Sprintf(format, args...))
}

// list returns the accumulated warnings, never nil, so the JSON surface
// always carries a warnings array.
func (w *warningList) list() []string {
	if w.entries == nil {
		return []string{}
	}
	return w.entries
}

func formatIntList(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
