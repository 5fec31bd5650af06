package api

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
