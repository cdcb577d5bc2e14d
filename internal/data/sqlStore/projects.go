package sqlStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter/utils"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/jmoiron/sqlx"
)

var (
	_ projectModel.ProjectStore    = (*Store)(nil)
	_ projectModel.EvaluationStore = (*Store)(nil)
)

type projectRow struct {
	Id          string         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Scope       string         `db:"scope"`
	Status      string         `db:"status"`
	Config      string         `db:"config"`
	DocumentIds string         `db:"document_ids"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r projectRow) toProject() (projectModel.Project, error) {
	p := projectModel.Project{
		Id:          r.Id,
		Name:        r.Name,
		Scope:       projectModel.ProjectScope(r.Scope),
		Status:      projectModel.ProjectStatus(r.Status),
		Config:      map[string]any{},
		DocumentIds: []string{},
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Description.Valid {
		d := r.Description.String
		p.Description = &d
	}
	if r.Config != "" {
		if err := json.Unmarshal([]byte(r.Config), &p.Config); err != nil {
			return p, err
		}
	}
	if r.DocumentIds != "" {
		if err := json.Unmarshal([]byte(r.DocumentIds), &p.DocumentIds); err != nil {
			return p, err
		}
	}
	return p, nil
}

type answerRow struct {
	Id               string          `db:"id"`
	QuestionId       string          `db:"question_id"`
	Status           string          `db:"status"`
	AIAnswerText     sql.NullString  `db:"ai_answer_text"`
	AIAnswerable     sql.NullBool    `db:"ai_answerable"`
	AIConfidence     sql.NullFloat64 `db:"ai_confidence"`
	AICitations      string          `db:"ai_citations"`
	AIError          string          `db:"ai_error"`
	ManualAnswerText sql.NullString  `db:"manual_answer_text"`
	ManualAnswerable sql.NullBool    `db:"manual_answerable"`
	ManualUpdatedAt  sql.NullTime    `db:"manual_updated_at"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func (r answerRow) toAnswer() (projectModel.Answer, error) {
	a := projectModel.Answer{
		Id:          r.Id,
		QuestionId:  r.QuestionId,
		Status:      projectModel.AnswerStatus(r.Status),
		AICitations: []projectModel.Citation{},
		AIError:     r.AIError,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.AIAnswerText.Valid {
		a.AIAnswerText = &r.AIAnswerText.String
	}
	if r.AIAnswerable.Valid {
		a.AIAnswerable = &r.AIAnswerable.Bool
	}
	if r.AIConfidence.Valid {
		a.AIConfidence = &r.AIConfidence.Float64
	}
	if r.AICitations != "" {
		if err := json.Unmarshal([]byte(r.AICitations), &a.AICitations); err != nil {
			return a, fmt.Errorf("answer %s citations: %w", r.Id, err)
		}
	}
	if r.ManualAnswerText.Valid {
		a.ManualAnswerText = &r.ManualAnswerText.String
	}
	if r.ManualAnswerable.Valid {
		a.ManualAnswerable = &r.ManualAnswerable.Bool
	}
	if r.ManualUpdatedAt.Valid {
		t := r.ManualUpdatedAt.Time
		a.ManualUpdatedAt = &t
	}
	return a, nil
}

type questionRow struct {
	Id         string         `db:"id"`
	ProjectId  string         `db:"project_id"`
	Section    sql.NullString `db:"section"`
	OrderIndex int            `db:"order_index"`
	Text       string         `db:"text"`
}

func (r questionRow) toQuestion() projectModel.Question {
	q := projectModel.Question{Id: r.Id, ProjectId: r.ProjectId, OrderIndex: r.OrderIndex, Text: r.Text}
	if r.Section.Valid {
		q.Section = &r.Section.String
	}
	return q
}

// CreateProject stores the project, its questions and one PENDING answer per question.
func (s *Store) CreateProject(ctx context.Context, project projectModel.Project, questions []projectModel.Question) error {
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = project.CreatedAt

	config, err := json.Marshal(nonNilConfig(project.Config))
	if err != nil {
		return appErrors.NewValidation("config", err.Error())
	}
	docIds, err := json.Marshal(nonNilIds(project.DocumentIds))
	if err != nil {
		return appErrors.NewValidation("document_ids", err.Error())
	}

	return s.write(ctx, "create project", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO projects (id, name, description, scope, status, config, document_ids, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			project.Id, project.Name, project.Description, project.Scope, project.Status,
			string(config), string(docIds), project.CreatedAt, project.UpdatedAt)
		if err != nil {
			return err
		}

		insertQ := tx.Rebind(`INSERT INTO questions (id, project_id, section, order_index, text) VALUES (?, ?, ?, ?, ?)`)
		insertA := tx.Rebind(`INSERT INTO answers (id, question_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`)
		for _, q := range questions {
			if _, err := tx.ExecContext(ctx, insertQ, q.Id, project.Id, q.Section, q.OrderIndex, q.Text); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, insertA, utils.GetNewUUID(), q.Id, projectModel.AnswerPending, now, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetProject(ctx context.Context, id string) (projectModel.Project, error) {
	var row projectRow
	if err := s.get(ctx, &row, "project", id, `SELECT * FROM projects WHERE id = ?`, id); err != nil {
		return projectModel.Project{}, err
	}
	p, err := row.toProject()
	if err != nil {
		return p, appErrors.NewPersistenceError("decode project", err)
	}
	return p, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]projectModel.Project, error) {
	var rows []projectRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM projects ORDER BY created_at DESC, id`); err != nil {
		return nil, wrapRead("list projects", err)
	}
	projects := make([]projectModel.Project, 0, len(rows))
	for _, r := range rows {
		p, err := r.toProject()
		if err != nil {
			return nil, appErrors.NewPersistenceError("decode project", err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// UpdateProject applies the update, moves the project to OUTDATED and every answer to STALE.
func (s *Store) UpdateProject(ctx context.Context, id string, update projectModel.ProjectUpdate) (projectModel.Project, error) {
	current, err := s.GetProject(ctx, id)
	if err != nil {
		return current, err
	}
	if update.Config != nil {
		current.Config = update.Config
	}
	if update.Scope != nil {
		current.Scope = *update.Scope
	}
	if update.SetDocs {
		current.DocumentIds = nonNilIds(update.DocumentIds)
	}
	config, err := json.Marshal(nonNilConfig(current.Config))
	if err != nil {
		return current, appErrors.NewValidation("config", err.Error())
	}
	docIds, err := json.Marshal(nonNilIds(current.DocumentIds))
	if err != nil {
		return current, appErrors.NewValidation("document_ids", err.Error())
	}
	now := time.Now().UTC()

	err = s.write(ctx, "update project", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE projects SET config = ?, scope = ?, document_ids = ?, status = ?, updated_at = ? WHERE id = ?`),
			string(config), current.Scope, string(docIds), projectModel.ProjectOutdated, now, id)
		if err != nil {
			return err
		}
		if err := affected(res, "project", id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			UPDATE answers SET status = ?, updated_at = ?
			WHERE question_id IN (SELECT id FROM questions WHERE project_id = ?)`),
			projectModel.AnswerStale, now, id)
		return err
	})
	if err != nil {
		return current, err
	}
	return s.GetProject(ctx, id)
}

func (s *Store) SetProjectStatus(ctx context.Context, id string, status projectModel.ProjectStatus) error {
	return s.write(ctx, "set project status", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`),
			status, time.Now().UTC(), id)
		if err != nil {
			return err
		}
		return affected(res, "project", id)
	})
}

func (s *Store) ListQuestions(ctx context.Context, projectId string) ([]projectModel.Question, error) {
	var rows []questionRow
	err := s.db.SelectContext(ctx, &rows,
		s.db.Rebind(`SELECT * FROM questions WHERE project_id = ? ORDER BY order_index, id`), projectId)
	if err != nil {
		return nil, wrapRead("list questions", err)
	}
	questions := make([]projectModel.Question, len(rows))
	for i, r := range rows {
		questions[i] = r.toQuestion()
	}
	return questions, nil
}

func (s *Store) ListAnswers(ctx context.Context, projectId string) ([]projectModel.QuestionAnswer, error) {
	questions, err := s.ListQuestions(ctx, projectId)
	if err != nil {
		return nil, err
	}
	var rows []answerRow
	err = s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT a.* FROM answers a JOIN questions q ON q.id = a.question_id
		WHERE q.project_id = ?`), projectId)
	if err != nil {
		return nil, wrapRead("list answers", err)
	}
	byQuestion := make(map[string]projectModel.Answer, len(rows))
	for _, r := range rows {
		a, err := r.toAnswer()
		if err != nil {
			return nil, appErrors.NewPersistenceError("decode answer", err)
		}
		byQuestion[r.QuestionId] = a
	}

	out := make([]projectModel.QuestionAnswer, 0, len(questions))
	for _, q := range questions {
		out = append(out, projectModel.QuestionAnswer{Question: q, Answer: byQuestion[q.Id]})
	}
	return out, nil
}

func (s *Store) GetAnswer(ctx context.Context, answerId string) (projectModel.Answer, error) {
	var row answerRow
	if err := s.get(ctx, &row, "answer", answerId, `SELECT * FROM answers WHERE id = ?`, answerId); err != nil {
		return projectModel.Answer{}, err
	}
	a, err := row.toAnswer()
	if err != nil {
		return a, appErrors.NewPersistenceError("decode answer", err)
	}
	return a, nil
}

func (s *Store) SaveAIResult(ctx context.Context, questionId string, result projectModel.AIResult) error {
	citations := result.Citations
	if citations == nil {
		citations = []projectModel.Citation{}
	}
	raw, err := json.Marshal(citations)
	if err != nil {
		return appErrors.NewPersistenceError("encode citations", err)
	}
	return s.write(ctx, "save answer", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE answers SET status = ?, ai_answer_text = ?, ai_answerable = ?, ai_confidence = ?,
				ai_citations = ?, ai_error = '', updated_at = ?
			WHERE question_id = ?`),
			result.Status, result.Text, result.Answerable, result.Confidence, string(raw), time.Now().UTC(), questionId)
		if err != nil {
			return err
		}
		return affected(res, "answer for question", questionId)
	})
}

// SaveAIError resets the answer to PENDING and records the failure. Earlier AI fields are kept.
func (s *Store) SaveAIError(ctx context.Context, questionId string, message string) error {
	return s.write(ctx, "save answer error", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE answers SET status = ?, ai_error = ?, updated_at = ? WHERE question_id = ?`),
			projectModel.AnswerPending, message, time.Now().UTC(), questionId)
		if err != nil {
			return err
		}
		return affected(res, "answer for question", questionId)
	})
}

// ReviewAnswer stores the manual fields as given, nil included.
func (s *Store) ReviewAnswer(ctx context.Context, answerId string, review projectModel.ManualReview, at time.Time) (projectModel.Answer, error) {
	err := s.write(ctx, "review answer", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE answers SET status = ?, manual_answer_text = ?, manual_answerable = ?,
				manual_updated_at = ?, updated_at = ?
			WHERE id = ?`),
			review.Status, review.ManualAnswerText, review.ManualAnswerable, at.UTC(), at.UTC(), answerId)
		if err != nil {
			return err
		}
		return affected(res, "answer", answerId)
	})
	if err != nil {
		return projectModel.Answer{}, err
	}
	return s.GetAnswer(ctx, answerId)
}

func (s *Store) MarkCorpusProjectsOutdated(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.write(ctx, "mark projects outdated", func(tx *sqlx.Tx) error {
		ids = nil
		if err := tx.SelectContext(ctx, &ids, tx.Rebind(`SELECT id FROM projects WHERE scope = ? ORDER BY id`),
			projectModel.ScopeAllDocs); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE projects SET status = ?, updated_at = ? WHERE scope = ?`),
			projectModel.ProjectOutdated, now, projectModel.ScopeAllDocs); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE answers SET status = ?, updated_at = ?
			WHERE status = ? AND question_id IN (
				SELECT q.id FROM questions q JOIN projects p ON p.id = q.project_id WHERE p.scope = ?)`),
			projectModel.AnswerStale, now, projectModel.AnswerGenerated, projectModel.ScopeAllDocs)
		return err
	})
	return ids, err
}

func (s *Store) CreateEvaluation(ctx context.Context, eval projectModel.Evaluation) error {
	now := time.Now().UTC()
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = now
	}
	return s.write(ctx, "create evaluation", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO evaluations (id, project_id, status, error, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
			eval.Id, eval.ProjectId, eval.Status, eval.Error, eval.CreatedAt, eval.CreatedAt)
		return err
	})
}

func (s *Store) CompleteEvaluation(ctx context.Context, id string, metrics projectModel.EvaluationMetrics) error {
	raw, err := json.Marshal(metrics)
	if err != nil {
		return appErrors.NewPersistenceError("encode metrics", err)
	}
	return s.finishEvaluation(ctx, id, projectModel.EvaluationCompleted, sql.NullString{String: string(raw), Valid: true}, "")
}

func (s *Store) FailEvaluation(ctx context.Context, id string, message string) error {
	return s.finishEvaluation(ctx, id, projectModel.EvaluationFailed, sql.NullString{}, message)
}

func (s *Store) finishEvaluation(ctx context.Context, id string, status projectModel.EvaluationStatus, metrics sql.NullString, message string) error {
	return s.write(ctx, "finish evaluation", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE evaluations SET status = ?, metrics = ?, error = ?, updated_at = ? WHERE id = ?`),
			status, metrics, message, time.Now().UTC(), id)
		if err != nil {
			return err
		}
		return affected(res, "evaluation", id)
	})
}

type evaluationRow struct {
	Id        string         `db:"id"`
	ProjectId string         `db:"project_id"`
	Status    string         `db:"status"`
	Metrics   sql.NullString `db:"metrics"`
	Error     string         `db:"error"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (s *Store) GetEvaluation(ctx context.Context, id string) (projectModel.Evaluation, error) {
	var row evaluationRow
	if err := s.get(ctx, &row, "evaluation", id, `SELECT * FROM evaluations WHERE id = ?`, id); err != nil {
		return projectModel.Evaluation{}, err
	}
	eval := projectModel.Evaluation{
		Id:        row.Id,
		ProjectId: row.ProjectId,
		Status:    projectModel.EvaluationStatus(row.Status),
		Error:     row.Error,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Metrics.Valid {
		var m projectModel.EvaluationMetrics
		if err := json.Unmarshal([]byte(row.Metrics.String), &m); err != nil {
			return eval, appErrors.NewPersistenceError("decode metrics", err)
		}
		eval.Metrics = &m
	}
	return eval, nil
}

func nonNilConfig(c map[string]any) map[string]any {
	if c == nil {
		return map[string]any{}
	}
	return c
}

func nonNilIds(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
