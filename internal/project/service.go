package project

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter/utils"
	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/akolanti/QuestionnaireAPI/internal/questionnaire"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/ingest"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

type CreateInput struct {
	Name        string
	Description *string
	Scope       string
	DocumentIds []string
	// QuestionnaireText wins over QuestionnairePath when both are set.
	QuestionnaireText string
	QuestionnairePath string
}

type UpdateInput struct {
	Config      map[string]any
	Scope       *string
	DocumentIds *[]string
}

type ReviewInput struct {
	Status           string
	ManualAnswerText *string
	ManualAnswerable *bool
}

type Service struct {
	store     projectModel.ProjectStore
	extractor ingest.Extractor
	now       func() time.Time
	logger    *logger_i.Logger
}

func NewService(store projectModel.ProjectStore, extractor ingest.Extractor) *Service {
	return &Service{
		store:     store,
		extractor: extractor,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger_i.NewLogger("Project Service"),
	}
}

// SplitIds reads a comma separated id list, dropping blanks.
func SplitIds(raw string) []string {
	ids := []string{}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Create parses the questionnaire and stores the project with one PENDING answer per
// question. The project passes through PARSING and ends READY.
func (s *Service) Create(ctx context.Context, in CreateInput) (projectModel.Project, []projectModel.Question, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return projectModel.Project{}, nil, appErrors.NewValidation("name", "is required")
	}
	rawScope := in.Scope
	if rawScope == "" {
		rawScope = string(projectModel.ScopeAllDocs)
	}
	scope, ok := projectModel.ParseScope(rawScope)
	if !ok {
		return projectModel.Project{}, nil, appErrors.NewValidation("scope", "unknown scope "+rawScope)
	}

	var questions []projectModel.Question
	switch {
	case strings.TrimSpace(in.QuestionnaireText) != "":
		questions = questionnaire.ParseText(strings.TrimSpace(in.QuestionnaireText))
	case in.QuestionnairePath != "":
		var err error
		if questions, err = questionnaire.ParseFile(ctx, s.extractor, in.QuestionnairePath); err != nil {
			return projectModel.Project{}, nil, appErrors.NewValidation("questionnaire", err.Error())
		}
	default:
		return projectModel.Project{}, nil, appErrors.NewValidation("questionnaire", "questionnaire text is required")
	}
	if len(questions) == 0 {
		return projectModel.Project{}, nil, appErrors.NewValidation("questionnaire", "no questions found")
	}

	p := projectModel.Project{
		Id:          utils.GetNewUUID(),
		Name:        name,
		Description: in.Description,
		Scope:       scope,
		Status:      projectModel.ProjectParsing,
		Config:      map[string]any{},
		DocumentIds: []string{},
		CreatedAt:   s.now(),
	}
	if scope == projectModel.ScopeSelectedDocs && in.DocumentIds != nil {
		p.DocumentIds = in.DocumentIds
	}
	for i := range questions {
		questions[i].Id = utils.GetNewUUID()
		questions[i].ProjectId = p.Id
	}

	if err := s.store.CreateProject(ctx, p, questions); err != nil {
		return projectModel.Project{}, nil, err
	}
	if err := s.store.SetProjectStatus(ctx, p.Id, projectModel.ProjectReady); err != nil {
		return projectModel.Project{}, nil, err
	}

	s.logger.WithTrace(ctx, config.TRACE_ID_KEY).Info("Project created",
		"projectId", p.Id, "scope", scope, "questions", len(questions))
	created, err := s.store.GetProject(ctx, p.Id)
	return created, questions, err
}

func (s *Service) Get(ctx context.Context, id string) (projectModel.Project, error) {
	return s.store.GetProject(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]projectModel.Project, error) {
	return s.store.ListProjects(ctx)
}

func (s *Service) Questions(ctx context.Context, projectId string) ([]projectModel.Question, error) {
	if _, err := s.store.GetProject(ctx, projectId); err != nil {
		return nil, err
	}
	return s.store.ListQuestions(ctx, projectId)
}

func (s *Service) Answers(ctx context.Context, projectId string) ([]projectModel.QuestionAnswer, error) {
	if _, err := s.store.GetProject(ctx, projectId); err != nil {
		return nil, err
	}
	return s.store.ListAnswers(ctx, projectId)
}

// Update changes config, scope or documents. Any update makes the project OUTDATED and
// all its answers STALE.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (projectModel.Project, error) {
	update := projectModel.ProjectUpdate{Config: in.Config}
	if in.Scope != nil {
		scope, ok := projectModel.ParseScope(*in.Scope)
		if !ok {
			return projectModel.Project{}, appErrors.NewValidation("scope", "unknown scope "+*in.Scope)
		}
		update.Scope = &scope
	}
	if in.DocumentIds != nil {
		update.DocumentIds = *in.DocumentIds
		update.SetDocs = true
	}
	p, err := s.store.UpdateProject(ctx, id, update)
	if err != nil {
		return p, err
	}
	s.logger.WithTrace(ctx, config.TRACE_ID_KEY).Info("Project updated, answers stale", "projectId", id)
	return p, nil
}

// MarkGenerating is used before a generation job is queued, so the status is visible at once.
func (s *Service) MarkGenerating(ctx context.Context, id string) (projectModel.Project, error) {
	if err := s.store.SetProjectStatus(ctx, id, projectModel.ProjectGenerating); err != nil {
		return projectModel.Project{}, err
	}
	return s.store.GetProject(ctx, id)
}

func (s *Service) Review(ctx context.Context, answerId string, in ReviewInput) (projectModel.Answer, error) {
	status, ok := projectModel.ParseAnswerStatus(in.Status)
	if !ok {
		return projectModel.Answer{}, appErrors.NewValidation("status", "unknown answer status "+in.Status)
	}
	return s.store.ReviewAnswer(ctx, answerId, projectModel.ManualReview{
		Status:           status,
		ManualAnswerText: in.ManualAnswerText,
		ManualAnswerable: in.ManualAnswerable,
	}, s.now())
}
