package interview

import (
	"context"
	"strings"

	"careerpilot/internal/ai"
	"careerpilot/internal/errors"
	"careerpilot/internal/types"
)

const (
	defaultNumQuestions = 5
	maxNumQuestions     = 20
)

var defaultQuestionTypes = []string{"technical", "behavioral", "general"}

var validQuestionTypes = map[string]struct{}{
	"technical":   {},
	"behavioral":  {},
	"general":     {},
	"situational": {},
}

// Questioner generates interview questions. ai.Provider satisfies it.
type Questioner interface {
	GenerateQuestions(ctx context.Context, input types.GenerateQuestionsInput) (types.QuestionSet, *ai.TokenUsage, error)
}

// QuestionService validates requests and generates question sets from a
// job description.
type QuestionService struct {
	questioner Questioner
	logger     *errors.Logger
}

func NewQuestionService(questioner Questioner, logger *errors.Logger) *QuestionService {
	return &QuestionService{questioner: questioner, logger: logger}
}

// Generate produces interview questions for a job description. A zero
// count defaults to 5; the type mix defaults to technical, behavioral and
// general.
func (s *QuestionService) Generate(ctx context.Context, input types.GenerateQuestionsInput) (types.QuestionSet, error) {
	if strings.TrimSpace(input.JobDescription) == "" {
		return types.QuestionSet{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"job description is empty", nil)
	}
	if input.NumQuestions < 0 || input.NumQuestions > maxNumQuestions {
		return types.QuestionSet{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"numQuestions must be between 1 and 20", nil)
	}
	if input.NumQuestions == 0 {
		input.NumQuestions = defaultNumQuestions
	}

	if len(input.QuestionTypes) == 0 {
		input.QuestionTypes = defaultQuestionTypes
	} else {
		for _, questionType := range input.QuestionTypes {
			if _, ok := validQuestionTypes[questionType]; !ok {
				return types.QuestionSet{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
					"unknown question type "+questionType, nil)
			}
		}
	}

	set, _, err := s.questioner.GenerateQuestions(ctx, input)
	if err != nil {
		return types.QuestionSet{}, err
	}
	if len(set.Questions) > input.NumQuestions {
		set.Questions = set.Questions[:input.NumQuestions]
	}

	s.logger.Info("Interview questions generated",
		"count", len(set.Questions),
		"types", strings.Join(input.QuestionTypes, ","))
	return set, nil
}
