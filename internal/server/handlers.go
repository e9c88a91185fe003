package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/types"
)

// ---------------------------------------------------------------------
// Interview Handlers
// ---------------------------------------------------------------------

// SetupRequest starts a new interview session for a candidate.
type SetupRequest struct {
	CandidateID   string `json:"candidate_id" validate:"required"`
	Role          string `json:"role" validate:"required"`
	InterviewType string `json:"interview_type" validate:"required,oneof=full custom"`
	CustomRound   string `json:"custom_round" validate:"omitempty,oneof=technical behavioral sales coding"`
}

// AnswerRequest carries one spoken answer plus its side signals.
type AnswerRequest struct {
	CandidateID string  `json:"candidate_id" validate:"required"`
	Answer      string  `json:"answer"`
	Confidence  float64 `json:"confidence" validate:"gte=0,lte=1"`
	Focus       float64 `json:"focus" validate:"gte=0,lte=1"`
}

// EndRequest ends a session early.
type EndRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
}

// CodeRequest submits the candidate's solution for the current problem.
type CodeRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
	Code        string `json:"code" validate:"required"`
}

// ExplanationRequest carries the candidate's verbal approach explanation.
type ExplanationRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
	Explanation string `json:"explanation" validate:"required"`
}

// decode parses and validates a JSON request body into dst.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validate.Struct(dst); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// candidateID reads the candidate_id query parameter used by GET endpoints.
func candidateID(r *http.Request) (string, error) {
	id := r.URL.Query().Get("candidate_id")
	if id == "" {
		return "", &ErrValidation{Field: "candidate_id", Message: "candidate_id is required"}
	}
	return id, nil
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req SetupRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if req.InterviewType == "custom" && req.CustomRound == "" {
		err := &ErrValidation{Field: "custom_round", Message: "custom_round is required for custom interviews"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sessionID, err := s.orch.StartSession(r.Context(), req.CandidateID, req.Role,
		types.InterviewType(req.InterviewType), req.CustomRound)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if s.printer != nil {
		s.printer.PrintSessionStart(sessionID, req.Role, types.InterviewType(req.InterviewType), nil)
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"status":     "ready",
	})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp, err := s.orch.SubmitAnswer(r.Context(), req.CandidateID, req.Answer,
		types.SideSignals{Confidence: req.Confidence, Focus: req.Focus})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleEndInterview(w http.ResponseWriter, r *http.Request) {
	var req EndRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.orch.EndSession(req.CandidateID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.printTranscripts(req.CandidateID)

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ended"})
}

// printTranscripts echoes every round's transcript in verbose mode.
func (s *Server) printTranscripts(candidateID string) {
	if s.printer == nil {
		return
	}
	transcripts, err := s.orch.Transcripts(candidateID)
	if err != nil {
		return
	}
	for _, tr := range transcripts {
		s.printer.PrintTranscript(tr.Type, tr.History)
	}
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := candidateID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	report, err := s.orch.GetFeedback(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if s.printer != nil {
		s.printTranscripts(id)
		s.printer.PrintReport(report)
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// handleCodingProblem serves the next problem for the candidate's coding
// round. 204 signals the round has run out of problems.
func (s *Server) handleCodingProblem(w http.ResponseWriter, r *http.Request) {
	id, err := candidateID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	problem, err := s.orch.NextCodingProblem(id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if problem == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.jsonResponse(w, http.StatusOK, problem)
}

func (s *Server) handleSubmitCode(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp, err := s.orch.SubmitCode(req.CandidateID, req.Code)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleCodeExplanation(w http.ResponseWriter, r *http.Request) {
	var req ExplanationRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	guidance, err := s.orch.CodeGuidance(r.Context(), req.CandidateID, req.Explanation)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"guidance": guidance})
}

// handleInterviews lists the candidate's persisted past interviews.
func (s *Server) handleInterviews(w http.ResponseWriter, r *http.Request) {
	id, err := candidateID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	interviews, err := s.orch.CompletedInterviews(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if interviews == nil {
		interviews = []db.CompletedInterview{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"interviews": interviews})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := candidateID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	history, err := s.orch.History(id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if history == nil {
		history = []types.QARecord{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"history": history})
}
