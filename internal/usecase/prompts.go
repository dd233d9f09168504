package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

const maxPromptSkills = 15
const maxPromptProjects = 4

// BuildResumeContext derives the generation context from a resume's analysis
// blob: experience entries reduced to description text only, capped at four
// projects.
func BuildResumeContext(r domain.Resume) domain.ResumeContext {
	projects := make([]string, 0, maxPromptProjects)
	for _, exp := range r.Analysis.Experience {
		if len(projects) == maxPromptProjects {
			break
		}
		desc := strings.TrimSpace(exp.Description)
		if desc == "" {
			desc = "No description available"
		}
		projects = append(projects, desc)
	}
	return domain.ResumeContext{
		InferredRole:      r.InferredRole,
		YearsOfExperience: r.YearsOfExperience,
		Skills:            r.Skills,
		Projects:          projects,
	}
}

// buildQuestionPrompt assembles the two-part question-generation prompt.
func buildQuestionPrompt(ctx domain.ResumeContext, questionCount int, difficulty string, focusAreas []string) domain.Prompt {
	role := ctx.InferredRole
	if role == "" {
		role = "Software Engineer"
	}
	years := "Unknown"
	if ctx.YearsOfExperience != nil {
		years = fmt.Sprintf("%g", *ctx.YearsOfExperience)
	}
	skills := "Not specified"
	if len(ctx.Skills) > 0 {
		capped := ctx.Skills
		if len(capped) > maxPromptSkills {
			capped = capped[:maxPromptSkills]
		}
		skills = strings.Join(capped, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Candidate Profile:\n- Target Role: %s\n- Years of Experience: %s\n- Key Skills: %s\n", role, years, skills)
	if len(ctx.Projects) > 0 {
		b.WriteString("- Notable Projects:\n")
		for _, p := range ctx.Projects {
			fmt.Fprintf(&b, "  - %s\n", p)
		}
	}
	b.WriteString("\n")
	if difficulty == domain.DifficultyMixed {
		b.WriteString("Use a mix of easy, medium, and hard questions. Distribute roughly: 30% easy, 40% medium, 30% hard.\n")
	} else {
		fmt.Fprintf(&b, "All questions should be at **%s** difficulty level.\n", difficulty)
	}
	if len(focusAreas) > 0 {
		fmt.Fprintf(&b, "Focus the questions on these areas: %s.\n", strings.Join(focusAreas, ", "))
	}
	b.WriteString("\nQUESTION GUIDELINES:\n" +
		"- Keep questions concise and direct (1-2 sentences max).\n" +
		"- Only scenario-based or system_design questions may be longer (up to 3-4 sentences) to set up proper context.\n" +
		"- Ask about specific technologies from the candidate's skill set.\n" +
		"- Include questions referencing their actual project experience.\n" +
		"- Avoid generic filler questions — every question should be purposeful.\n" +
		"- Mix question types: technical, behavioral, project-based, system_design, and coding.\n" +
		"\nOUTPUT FORMAT:\n" +
		"Return a JSON object with a \"questions\" array. Each element:\n" +
		"  { \"type\": \"technical|behavioral|project|system_design|coding\", " +
		"\"question\": \"<concise question text>\", \"difficulty\": \"easy|medium|hard\" }\n")
	fmt.Fprintf(&b, "\nTotal questions: %d\n", questionCount)
	b.WriteString("No additional text, no markdown, no code fences — ONLY the JSON object.")

	return domain.Prompt{
		System: "You are an expert technical interviewer conducting a real interview. " +
			"Generate precise, focused interview questions that test a candidate's " +
			"actual skills and experience. Always respond with valid JSON only.",
		User: b.String(),
	}
}

// buildEvaluationPrompt assembles the session-evaluation prompt from all
// answered questions.
func buildEvaluationPrompt(questions []domain.InterviewQuestion) domain.Prompt {
	type qa struct {
		QuestionID string `json:"question_id"`
		Question   string `json:"question"`
		Answer     string `json:"answer"`
		Category   string `json:"category"`
	}
	pairs := make([]qa, 0, len(questions))
	for _, q := range questions {
		answer := ""
		if q.AnswerText != nil {
			answer = *q.AnswerText
		}
		pairs = append(pairs, qa{QuestionID: q.ID, Question: q.Text, Answer: answer, Category: q.Category})
	}
	encoded, _ := json.Marshal(pairs)

	user := "Session Q&A: " + string(encoded) + "\n" +
		"OUTPUT FORMAT (JSON): " +
		`{"summary": "<string>", "confidence_score": <float>, ` +
		`"strengths": ["<string>", ...], ` +
		`"weaknesses": ["<string>", ...], ` +
		`"score_breakdown": {"technical": <float>, "behavioral": <float>, "project": <float>, "overall": <float>}, ` +
		`"questions_feedback": [{"question_id": "<string>", "evaluation_score": <float>, "feedback_comment": "<string>"}]}`

	return domain.Prompt{
		System: "You are an expert technical interviewer. Evaluate the following interview session. " +
			"For each question, provide a score (0-1) and brief feedback. Then, summarize the " +
			"candidate's strengths and weaknesses and provide an overall confidence score (0-1). " +
			"Always respond with valid JSON only.",
		User: user,
	}
}
