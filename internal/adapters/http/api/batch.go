package api

import (
	"net/http"

	service "github.com/okian/elo/internal/app"
	"github.com/okian/elo/pkg/elo"
)

type batchRequest struct {
	Matches []service.Request `json:"matches"`
}

type batchItem struct {
	MatchID string         `json:"match_id,omitempty"`
	Results []elo.Result   `json:"results,omitempty"`
	Error   *errorResponse `json:"error,omitempty"`
}

type batchResponse struct {
	Items []batchItem `json:"items"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.batch"
	var req batchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Matches) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errEmptyBatch))
		return
	}

	items, err := s.calc.Batch(r.Context(), req.Matches)
	if err != nil {
		s.writeServiceError(w, r, op, err)
		return
	}

	resp := batchResponse{Items: make([]batchItem, len(items))}
	for i, item := range items {
		resp.Items[i] = batchItem{MatchID: item.MatchID, Results: item.Results}
		if item.Err != nil {
			code := service.Reason(item.Err)
			if !service.IsValidation(item.Err) {
				code = "internal"
			}
			resp.Items[i].Error = &errorResponse{Code: code, Message: item.Err.Error()}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
