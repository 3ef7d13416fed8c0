package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kokugo/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "kokugo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(school string, year int) *models.ExamRecord {
	count := 1234
	return &models.ExamRecord{
		School:          school,
		Year:            year,
		TotalCharacters: count,
		TotalQuestions:  3,
		Sections: []models.Section{{
			Number:         1,
			Classification: models.SectionTextPassage,
			Title:          "一、",
			CharacterCount: &count,
			QuestionCount:  3,
			Questions: []models.Question{
				{Number: 1, Marker: "問一", ResponseType: models.ResponseDescriptiveFree},
				{Number: 2, Marker: "問二", ResponseType: models.ResponseChoice},
				{Number: 3, Marker: "問三", ResponseType: models.ResponseExtraction},
			},
			Source: &models.Source{Author: "森沢明夫", Work: "きらきら眼鏡"},
		}},
		Warnings: []string{},
	}
}

func TestPutAndGetByHash(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("開成中学校", 2024)
	id, err := s.Put(ctx, "/exams/kaisei2024.txt", "hash-a", rec)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	e, err := s.GetByHash(ctx, "hash-a")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, id, e.ID)
	assert.Equal(t, "開成中学校", e.School)
	assert.Equal(t, 2024, e.Year)
	assert.Equal(t, "/exams/kaisei2024.txt", e.Path)
	assert.Equal(t, "hash-a", e.ContentHash)
	require.NotNil(t, e.Record)
	assert.Equal(t, rec.TotalCharacters, e.Record.TotalCharacters)
	require.Len(t, e.Record.Sections, 1)
	require.NotNil(t, e.Record.Sections[0].Source)
	assert.Equal(t, "森沢明夫", e.Record.Sections[0].Source.Author)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestGetByHashMissing(t *testing.T) {
	s := openTestStore(t)

	e, err := s.GetByHash(context.Background(), "no-such-hash")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestPutReplacesSameContentHash(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "/exams/a.txt", "hash-a", sampleRecord("開成中学校", 2023))
	require.NoError(t, err)
	_, err = s.Put(ctx, "/exams/a-moved.txt", "hash-a", sampleRecord("開成中学校", 2024))
	require.NoError(t, err)

	entries, err := s.List(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1, "same content hash must not duplicate rows")
	assert.Equal(t, 2024, entries[0].Year)
	assert.Equal(t, "/exams/a-moved.txt", entries[0].Path)
}

func TestListFiltersBySchool(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "/exams/a.txt", "hash-a", sampleRecord("開成中学校", 2024))
	require.NoError(t, err)
	_, err = s.Put(ctx, "/exams/b.txt", "hash-b", sampleRecord("麻布中学校", 2024))
	require.NoError(t, err)
	_, err = s.Put(ctx, "/exams/c.txt", "hash-c", sampleRecord("開成中学校", 2023))
	require.NoError(t, err)

	all, err := s.List(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	kaisei, err := s.List(ctx, "開成中学校", 10)
	require.NoError(t, err)
	require.Len(t, kaisei, 2)
	for _, e := range kaisei {
		assert.Equal(t, "開成中学校", e.School)
	}

	limited, err := s.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
