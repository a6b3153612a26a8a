package interview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/ai"
	"careerpilot/internal/types"
)

type fakeQuestioner struct {
	set       types.QuestionSet
	lastInput types.GenerateQuestionsInput
}

func (f *fakeQuestioner) GenerateQuestions(ctx context.Context, input types.GenerateQuestionsInput) (types.QuestionSet, *ai.TokenUsage, error) {
	f.lastInput = input
	return f.set, nil, nil
}

func questionSet(n int) types.QuestionSet {
	set := types.QuestionSet{}
	for i := 0; i < n; i++ {
		set.Questions = append(set.Questions, types.Question{
			Question:   "What is your experience with Go?",
			Type:       "technical",
			Difficulty: "medium",
		})
	}
	return set
}

func TestGenerateDefaults(t *testing.T) {
	questioner := &fakeQuestioner{set: questionSet(5)}
	service := NewQuestionService(questioner, testLogger(t))

	set, err := service.Generate(context.Background(), types.GenerateQuestionsInput{
		JobDescription: "Backend engineer role",
	})
	require.NoError(t, err)

	assert.Len(t, set.Questions, 5)
	assert.Equal(t, 5, questioner.lastInput.NumQuestions)
	assert.Equal(t, []string{"technical", "behavioral", "general"}, questioner.lastInput.QuestionTypes)
}

func TestGenerateTrimsOverlongSets(t *testing.T) {
	questioner := &fakeQuestioner{set: questionSet(9)}
	service := NewQuestionService(questioner, testLogger(t))

	set, err := service.Generate(context.Background(), types.GenerateQuestionsInput{
		JobDescription: "Backend engineer role",
		NumQuestions:   3,
	})
	require.NoError(t, err)
	assert.Len(t, set.Questions, 3)
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name  string
		input types.GenerateQuestionsInput
	}{
		{name: "empty job description", input: types.GenerateQuestionsInput{}},
		{name: "too many questions", input: types.GenerateQuestionsInput{JobDescription: "x", NumQuestions: 50}},
		{name: "negative count", input: types.GenerateQuestionsInput{JobDescription: "x", NumQuestions: -1}},
		{name: "unknown type", input: types.GenerateQuestionsInput{JobDescription: "x", QuestionTypes: []string{"trick"}}},
	}

	service := NewQuestionService(&fakeQuestioner{}, testLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Generate(context.Background(), tt.input)
			require.Error(t, err)
		})
	}
}

func TestGenerateCustomTypes(t *testing.T) {
	questioner := &fakeQuestioner{set: questionSet(4)}
	service := NewQuestionService(questioner, testLogger(t))

	_, err := service.Generate(context.Background(), types.GenerateQuestionsInput{
		JobDescription: "SRE role",
		NumQuestions:   4,
		QuestionTypes:  []string{"situational", "technical"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"situational", "technical"}, questioner.lastInput.QuestionTypes)
}
