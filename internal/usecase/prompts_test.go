package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

func TestBuildResumeContextCapsProjects(t *testing.T) {
	t.Parallel()
	exp := make([]domain.ExperienceItem, 6)
	for i := range exp {
		exp[i] = domain.ExperienceItem{Description: "project"}
	}
	exp[1].Description = "  "

	r := domain.Resume{
		InferredRole: "Backend Engineer",
		Skills:       []string{"go"},
		Analysis:     domain.ResumeAnalysis{Experience: exp},
	}
	ctx := BuildResumeContext(r)
	require.Len(t, ctx.Projects, 4)
	assert.Equal(t, "No description available", ctx.Projects[1])
	assert.Equal(t, "Backend Engineer", ctx.InferredRole)
}

func TestQuestionPromptMixedDistribution(t *testing.T) {
	t.Parallel()
	p := buildQuestionPrompt(domain.ResumeContext{}, 12, domain.DifficultyMixed, nil)
	assert.Contains(t, p.User, "30% easy, 40% medium, 30% hard")
	assert.Contains(t, p.User, "Total questions: 12")
	assert.Contains(t, p.User, "Target Role: Software Engineer")
	assert.Contains(t, p.User, "Years of Experience: Unknown")
}

func TestQuestionPromptFixedDifficultyAndFocus(t *testing.T) {
	t.Parallel()
	years := 7.5
	ctx := domain.ResumeContext{
		InferredRole:      "SRE",
		YearsOfExperience: &years,
		Skills:            []string{"kubernetes", "terraform"},
		Projects:          []string{"Migrated a fleet to spot instances"},
	}
	p := buildQuestionPrompt(ctx, 8, domain.DifficultyHard, []string{"incident response", "observability"})
	assert.Contains(t, p.User, "**hard** difficulty")
	assert.Contains(t, p.User, "incident response, observability")
	assert.Contains(t, p.User, "kubernetes, terraform")
	assert.Contains(t, p.User, "Years of Experience: 7.5")
	assert.NotContains(t, p.User, "30% easy")
}

func TestQuestionPromptCapsSkills(t *testing.T) {
	t.Parallel()
	skills := make([]string, 20)
	for i := range skills {
		skills[i] = "skill" + string(rune('a'+i))
	}
	p := buildQuestionPrompt(domain.ResumeContext{Skills: skills}, 10, domain.DifficultyEasy, nil)
	assert.Contains(t, p.User, skills[14])
	assert.NotContains(t, p.User, skills[15])
}

func TestEvaluationPromptCarriesAnswers(t *testing.T) {
	t.Parallel()
	qs := []domain.InterviewQuestion{
		{ID: "q1", Text: "Explain goroutines", AnswerText: ptr("lightweight threads"), Category: domain.CategoryTechnical},
		{ID: "q2", Text: "Tell me about a conflict", Category: domain.CategoryBehavioral},
	}
	p := buildEvaluationPrompt(qs)
	assert.Contains(t, p.User, `"question_id":"q1"`)
	assert.Contains(t, p.User, "lightweight threads")
	assert.Contains(t, p.User, "questions_feedback")
	assert.True(t, strings.Contains(p.System, "valid JSON"))
}
