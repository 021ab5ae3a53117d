package handlers

import (
	"net/http"

	"github.com/upb/refund-checker/utils"
)

// StatusResponse represents application status information
type StatusResponse struct {
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// StatusHandler returns application status information
func StatusHandler(environment string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, StatusResponse{
			Service:     "refund-checker",
			Version:     "0.1.0",
			Environment: environment,
		})
	}
}
