package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/usecase"
)

// Server bundles the usecases behind HTTP handlers.
type Server struct {
	Interviews     usecase.InterviewService
	Ingest         usecase.IngestService
	UploadDir      string
	MaxUploadBytes int64
	validate       *validator.Validate
}

// NewServer constructs a Server.
func NewServer(interviews usecase.InterviewService, ingest usecase.IngestService, uploadDir string, maxUploadMB int64) *Server {
	return &Server{
		Interviews:     interviews,
		Ingest:         ingest,
		UploadDir:      uploadDir,
		MaxUploadBytes: maxUploadMB << 20,
		validate:       validator.New(),
	}
}

// userID extracts the caller identity set by the upstream gateway.
// Authentication itself is out of scope here.
func userID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if id == "" {
		return "", fmt.Errorf("%w: missing X-User-ID", domain.ErrValidation)
	}
	return id, nil
}

type startRequest struct {
	ResumeID      string   `json:"resume_id"`
	QuestionCount int      `json:"question_count" validate:"omitempty,min=5,max=30"`
	Difficulty    string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard mixed"`
	FocusAreas    []string `json:"focus_areas" validate:"omitempty,dive,min=1"`
}

type questionResponse struct {
	ID         string `json:"question_id"`
	Text       string `json:"question_text"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	OrderIndex int    `json:"order_index"`
}

func toQuestionResponse(q domain.InterviewQuestion) questionResponse {
	return questionResponse{ID: q.ID, Text: q.Text, Category: q.Category, Difficulty: q.Difficulty, OrderIndex: q.OrderIndex}
}

// StartInterviewHandler handles POST /v1/interviews.
func (s *Server) StartInterviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := userID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var req startRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.QuestionCount == 0 {
			req.QuestionCount = 12
		}
		if req.Difficulty == "" {
			req.Difficulty = domain.DifficultyMixed
		}
		if err := s.validate.Struct(req); err != nil {
			writeError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
			return
		}
		res, err := s.Interviews.Start(r.Context(), usecase.StartInput{
			UserID:        uid,
			ResumeID:      req.ResumeID,
			QuestionCount: req.QuestionCount,
			Difficulty:    req.Difficulty,
			FocusAreas:    req.FocusAreas,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		questions := make([]questionResponse, 0, len(res.Questions))
		for _, q := range res.Questions {
			questions = append(questions, toQuestionResponse(q))
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"session_id":     res.Session.ID,
			"resume_id":      res.Session.ResumeID,
			"started_at":     res.Session.StartedAt,
			"difficulty":     res.Session.Difficulty,
			"question_count": res.Session.QuestionCount,
			"questions":      questions,
		})
	}
}

type answerRequest struct {
	AnswerText       string `json:"answer_text" validate:"required"`
	TimeTakenSeconds *int   `json:"time_taken_seconds" validate:"omitempty,min=0"`
}

// SubmitAnswerHandler handles POST /v1/interviews/{id}/questions/{qid}/answer.
func (s *Server) SubmitAnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := userID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var req answerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := s.validate.Struct(req); err != nil {
			writeError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
			return
		}
		next, err := s.Interviews.SubmitAnswer(r.Context(), uid,
			chi.URLParam(r, "id"), chi.URLParam(r, "qid"), req.AnswerText, req.TimeTakenSeconds)
		if err != nil {
			writeError(w, err)
			return
		}
		if next == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, toQuestionResponse(*next))
	}
}

// NextQuestionHandler handles GET /v1/interviews/{id}/next.
func (s *Server) NextQuestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := userID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		next, err := s.Interviews.GetNextQuestion(r.Context(), uid, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if next == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, toQuestionResponse(*next))
	}
}

// CompleteInterviewHandler handles POST /v1/interviews/{id}/complete.
func (s *Server) CompleteInterviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := userID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		res, err := s.Interviews.Complete(r.Context(), uid, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summaryPayload(res))
	}
}

// SummaryHandler handles GET /v1/interviews/{id}/summary.
func (s *Server) SummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := userID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		res, err := s.Interviews.GetSummary(r.Context(), uid, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summaryPayload(res))
	}
}

func summaryPayload(res domain.SummaryResult) map[string]any {
	questions := make([]map[string]any, 0, len(res.Questions))
	for _, q := range res.Questions {
		questions = append(questions, map[string]any{
			"question_id":      q.ID,
			"question_text":    q.Text,
			"category":         q.Category,
			"difficulty":       q.Difficulty,
			"order_index":      q.OrderIndex,
			"answer_text":      q.AnswerText,
			"evaluation_score": q.EvaluationScore,
			"feedback_comment": q.FeedbackComment,
		})
	}
	return map[string]any{
		"session_id":       res.SessionID,
		"completed":        res.Completed,
		"final_score":      res.FinalScore,
		"feedback_summary": res.FeedbackSummary,
		"strengths":        res.Strengths,
		"weaknesses":       res.Weaknesses,
		"score_breakdown":  res.ScoreBreakdown,
		"questions":        questions,
	}
}

var allowedUploadExts = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

// UploadResumeHandler handles POST /v1/resumes (multipart). The file is
// stored under a generated name, a PENDING row is created, and parsing is
// dispatched to the queue (or the in-process fallback).
func (s *Server) UploadResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := userID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
		if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
			writeError(w, fmt.Errorf("%w: file too large or malformed form", domain.ErrValidation))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, fmt.Errorf("%w: file field required", domain.ErrValidation))
			return
		}
		defer func() { _ = file.Close() }()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedUploadExts[ext] {
			writeError(w, fmt.Errorf("%w: unsupported file extension %q", domain.ErrValidation, ext))
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, err)
			return
		}
		if mt := mimetype.Detect(data); !mimeMatchesExt(mt.String(), ext) {
			writeError(w, fmt.Errorf("%w: file content does not match extension %q", domain.ErrValidation, ext))
			return
		}

		name := uuid.New().String() + ext
		path := filepath.Join(s.UploadDir, name)
		if err := os.MkdirAll(s.UploadDir, 0o750); err != nil {
			writeError(w, err)
			return
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			writeError(w, err)
			return
		}

		res, err := s.Ingest.Upload(r.Context(), usecase.UploadInput{
			UserID:           uid,
			FilePath:         path,
			FileName:         name,
			OriginalFilename: header.Filename,
			FileSize:         int64(len(data)),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"resume_id": res.ResumeID,
			"task_id":   res.TaskID,
			"status":    domain.ResumePending,
		})
	}
}

func mimeMatchesExt(mime, ext string) bool {
	switch ext {
	case ".pdf":
		return strings.HasPrefix(mime, "application/pdf")
	case ".docx":
		return strings.HasPrefix(mime, "application/vnd.openxmlformats-officedocument.wordprocessingml.document") ||
			strings.HasPrefix(mime, "application/zip")
	case ".txt":
		return strings.HasPrefix(mime, "text/")
	}
	return false
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: empty body", domain.ErrValidation)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	return nil
}
