package sqlStore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "qa.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, s.Close()) })
	return s
}

func createProject(t *testing.T, s *Store, id string, scope projectModel.ProjectScope, questions ...string) []projectModel.Question {
	t.Helper()
	qs := make([]projectModel.Question, len(questions))
	for i, text := range questions {
		qs[i] = projectModel.Question{Id: id + "-q" + string(rune('1'+i)), ProjectId: id, OrderIndex: i + 1, Text: text}
	}
	err := s.CreateProject(context.Background(), projectModel.Project{
		Id: id, Name: "project " + id, Scope: scope, Status: projectModel.ProjectReady,
	}, qs)
	require.NoError(t, err)
	return qs
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	assert.True(t, appErrors.IsConfiguration(err))
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qa.db")
	s, err := Open(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	defer s.Close()

	var version int
	require.NoError(t, s.db.Get(&version, `SELECT MAX(version) FROM schema_migrations`))
	assert.Equal(t, 1, version)
}

func TestDocuments_Lifecycle(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	older := corpusModel.Document{Id: "d1", Filename: "a.pdf", Status: corpusModel.DocumentUploaded, CreatedAt: time.Now().Add(-time.Hour).UTC()}
	newer := corpusModel.Document{Id: "d2", Filename: "b.txt", Status: corpusModel.DocumentUploaded}
	require.NoError(t, s.CreateDocument(ctx, older))
	require.NoError(t, s.CreateDocument(ctx, newer))

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d2", docs[0].Id, "newest first")

	require.NoError(t, s.UpdateDocumentPath(ctx, "d1", "/data/d1_a.pdf"))
	require.NoError(t, s.SetDocumentStatus(ctx, "d1", corpusModel.DocumentFailed, "bad pdf"))
	got, err := s.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "/data/d1_a.pdf", got.StoragePath)
	assert.Equal(t, corpusModel.DocumentFailed, got.Status)
	assert.Equal(t, "bad pdf", got.Error)

	_, err = s.GetDocument(ctx, "missing")
	assert.True(t, appErrors.IsNotFound(err))
	assert.True(t, appErrors.IsNotFound(s.SetDocumentStatus(ctx, "missing", corpusModel.DocumentIndexed, "")))
}

func TestReplaceChunks(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateDocument(ctx, corpusModel.Document{Id: "d1", Filename: "a.pdf", Status: corpusModel.DocumentUploaded}))

	page := 3
	first := []corpusModel.Chunk{
		{Id: "c1", ChunkIndex: 0, Text: "one", Page: &page, BBox: &corpusModel.BBox{X0: 1, Y0: 2, X1: 3, Y1: 4}},
		{Id: "c2", ChunkIndex: 1, Text: "two"},
	}
	require.NoError(t, s.ReplaceChunks(ctx, "d1", first))

	chunks, err := s.ListChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 3, *chunks[0].Page)
	assert.Equal(t, 4.0, chunks[0].BBox.Y1)
	assert.Nil(t, chunks[1].Page)
	assert.Nil(t, chunks[1].BBox)

	doc, err := s.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, corpusModel.DocumentParsed, doc.Status)

	require.NoError(t, s.ReplaceChunks(ctx, "d1", []corpusModel.Chunk{{Id: "c3", Text: "three"}}))
	chunks, err = s.ListChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "c3", chunks[0].Id)
	assert.Equal(t, "d1", chunks[0].DocumentId)
}

func TestProjects_CreateAndList(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	createProject(t, s, "p1", projectModel.ScopeSelectedDocs, "Do you encrypt?", "Do you back up?")

	p, err := s.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, projectModel.ScopeSelectedDocs, p.Scope)
	assert.Equal(t, []string{}, p.DocumentIds)
	assert.Equal(t, map[string]any{}, p.Config)

	rows, err := s.ListAnswers(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Do you encrypt?", rows[0].Question.Text)
	assert.Equal(t, projectModel.AnswerPending, rows[0].Answer.Status)
	assert.Nil(t, rows[0].Answer.AIAnswerText)
	assert.Empty(t, rows[0].Answer.AICitations)

	list, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveAIResultAndError(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	qs := createProject(t, s, "p1", projectModel.ScopeAllDocs, "q")

	page := 2
	require.NoError(t, s.SaveAIResult(ctx, qs[0].Id, projectModel.AIResult{
		Status: projectModel.AnswerGenerated, Text: "Yes, AES-256.", Answerable: true, Confidence: 0.812,
		Citations: []projectModel.Citation{{ChunkId: "c1", DocumentId: "d1", Page: &page, Similarity: 0.9, TextSnippet: "AES"}},
	}))
	rows, err := s.ListAnswers(ctx, "p1")
	require.NoError(t, err)
	a := rows[0].Answer
	assert.Equal(t, projectModel.AnswerGenerated, a.Status)
	assert.Equal(t, "Yes, AES-256.", *a.AIAnswerText)
	assert.True(t, *a.AIAnswerable)
	assert.Equal(t, 0.812, *a.AIConfidence)
	require.Len(t, a.AICitations, 1)
	assert.Equal(t, 2, *a.AICitations[0].Page)

	require.NoError(t, s.SaveAIError(ctx, qs[0].Id, "upstream generation failed"))
	got, err := s.GetAnswer(ctx, a.Id)
	require.NoError(t, err)
	assert.Equal(t, projectModel.AnswerPending, got.Status)
	assert.Equal(t, "upstream generation failed", got.AIError)

	assert.True(t, appErrors.IsNotFound(s.SaveAIError(ctx, "nope", "x")))
}

func TestAnswers_CorruptCitationsSurface(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	qs := createProject(t, s, "p1", projectModel.ScopeAllDocs, "q")
	_, err := s.db.Exec(`UPDATE answers SET ai_citations = '[{"chunk_id":' WHERE question_id = ?`, qs[0].Id)
	require.NoError(t, err)

	_, err = s.ListAnswers(ctx, "p1")
	var pe *appErrors.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "decode answer", pe.Op)

	var id string
	require.NoError(t, s.db.Get(&id, `SELECT id FROM answers WHERE question_id = ?`, qs[0].Id))
	_, err = s.GetAnswer(ctx, id)
	require.ErrorAs(t, err, &pe)
}

func TestReviewAnswer_StoresNils(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	createProject(t, s, "p1", projectModel.ScopeAllDocs, "q")
	rows, err := s.ListAnswers(ctx, "p1")
	require.NoError(t, err)
	id := rows[0].Answer.Id

	text := "Manually written"
	yes := true
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	got, err := s.ReviewAnswer(ctx, id, projectModel.ManualReview{
		Status: projectModel.AnswerManualUpdated, ManualAnswerText: &text, ManualAnswerable: &yes,
	}, at)
	require.NoError(t, err)
	assert.Equal(t, projectModel.AnswerManualUpdated, got.Status)
	assert.Equal(t, text, *got.ManualAnswerText)
	assert.True(t, got.ManualUpdatedAt.Equal(at))

	got, err = s.ReviewAnswer(ctx, id, projectModel.ManualReview{Status: projectModel.AnswerConfirmed}, at)
	require.NoError(t, err)
	assert.Nil(t, got.ManualAnswerText)
	assert.Nil(t, got.ManualAnswerable)

	_, err = s.ReviewAnswer(ctx, "missing", projectModel.ManualReview{Status: projectModel.AnswerConfirmed}, at)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestMarkCorpusProjectsOutdated(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	corpus := createProject(t, s, "p1", projectModel.ScopeAllDocs, "generated", "reviewed")
	selected := createProject(t, s, "p2", projectModel.ScopeSelectedDocs, "generated")

	for _, q := range []string{corpus[0].Id, corpus[1].Id, selected[0].Id} {
		require.NoError(t, s.SaveAIResult(ctx, q, projectModel.AIResult{Status: projectModel.AnswerGenerated, Text: "x"}))
	}
	rows, err := s.ListAnswers(ctx, "p1")
	require.NoError(t, err)
	_, err = s.ReviewAnswer(ctx, rows[1].Answer.Id, projectModel.ManualReview{Status: projectModel.AnswerConfirmed}, time.Now())
	require.NoError(t, err)

	ids, err := s.MarkCorpusProjectsOutdated(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids)

	p1, _ := s.GetProject(ctx, "p1")
	p2, _ := s.GetProject(ctx, "p2")
	assert.Equal(t, projectModel.ProjectOutdated, p1.Status)
	assert.Equal(t, projectModel.ProjectReady, p2.Status)

	rows, err = s.ListAnswers(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, projectModel.AnswerStale, rows[0].Answer.Status)
	assert.Equal(t, projectModel.AnswerConfirmed, rows[1].Answer.Status)

	rows, err = s.ListAnswers(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, projectModel.AnswerGenerated, rows[0].Answer.Status)
}

func TestUpdateProject_StalesEverything(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	qs := createProject(t, s, "p1", projectModel.ScopeAllDocs, "a", "b")
	require.NoError(t, s.SaveAIResult(ctx, qs[0].Id, projectModel.AIResult{Status: projectModel.AnswerMissingData}))

	scope := projectModel.ScopeSelectedDocs
	p, err := s.UpdateProject(ctx, "p1", projectModel.ProjectUpdate{
		Scope: &scope, DocumentIds: []string{"d1"}, SetDocs: true, Config: map[string]any{"top_k": float64(3)},
	})
	require.NoError(t, err)
	assert.Equal(t, projectModel.ProjectOutdated, p.Status)
	assert.Equal(t, []string{"d1"}, p.DocumentIds)
	assert.Equal(t, float64(3), p.Config["top_k"])

	rows, err := s.ListAnswers(ctx, "p1")
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, projectModel.AnswerStale, r.Answer.Status)
	}

	_, err = s.UpdateProject(ctx, "nope", projectModel.ProjectUpdate{})
	assert.True(t, appErrors.IsNotFound(err))
}

func TestEvaluations(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	createProject(t, s, "p1", projectModel.ScopeAllDocs, "q")

	require.NoError(t, s.CreateEvaluation(ctx, projectModel.Evaluation{Id: "e1", ProjectId: "p1", Status: projectModel.EvaluationPending}))
	got, err := s.GetEvaluation(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, projectModel.EvaluationPending, got.Status)
	assert.Nil(t, got.Metrics)

	metrics := projectModel.EvaluationMetrics{
		PerQuestion: []projectModel.QuestionScore{{QuestionId: "p1-q1", Score: 0.9}},
		Aggregate:   projectModel.AggregateScore{OverallScore: 0.9},
	}
	require.NoError(t, s.CompleteEvaluation(ctx, "e1", metrics))
	got, err = s.GetEvaluation(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, projectModel.EvaluationCompleted, got.Status)
	require.NotNil(t, got.Metrics)
	assert.Equal(t, 0.9, got.Metrics.Aggregate.OverallScore)

	require.NoError(t, s.CreateEvaluation(ctx, projectModel.Evaluation{Id: "e2", ProjectId: "p1", Status: projectModel.EvaluationPending}))
	require.NoError(t, s.FailEvaluation(ctx, "e2", "embedding down"))
	got, err = s.GetEvaluation(ctx, "e2")
	require.NoError(t, err)
	assert.Equal(t, projectModel.EvaluationFailed, got.Status)
	assert.Equal(t, "embedding down", got.Error)

	_, err = s.GetEvaluation(ctx, "missing")
	assert.True(t, appErrors.IsNotFound(err))
}
