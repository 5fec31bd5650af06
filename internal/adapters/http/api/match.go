package api

import (
	"errors"
	"net/http"

	service "github.com/okian/elo/internal/app"
	"github.com/okian/elo/pkg/logger"
)

type expectedScoreRequest struct {
	A service.OpponentSpec `json:"a"`
	B service.OpponentSpec `json:"b"`
}

type expectedScoreResponse struct {
	ExpectedScore float64 `json:"expected_score"`
}

// handleMatch serves the single-match endpoints. The body shape follows kind.
func (s *Server) handleMatch(kind service.Kind) http.HandlerFunc {
	op := "api." + string(kind)
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.Request
		if err := decode(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		req.Kind = kind

		out, err := s.calc.Calculate(r.Context(), req)
		if err != nil {
			s.writeServiceError(w, r, op, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleExpectedScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.expected_score"
	var req expectedScoreRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	score, err := s.calc.ExpectedScore(r.Context(), req.A, req.B)
	if err != nil {
		s.writeServiceError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, expectedScoreResponse{ExpectedScore: score})
}

// writeServiceError maps service failures to HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrBatchTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, service.Reason(err), Wrap(op, err))
	case service.IsValidation(err):
		writeError(w, http.StatusBadRequest, service.Reason(err), Wrap(op, err))
	default:
		s.logger.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", NewKind(op, ErrInternal))
	}
}
