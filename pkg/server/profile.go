package server

import (
	"net/http"

	"github.com/maphoenix/solarroi/pkg/types"
)

// handleProfileDefaults maps coarse profile answers (house size, EV,
// occupancy) onto a pre-filled calculation request the frontend can edit.
func (s *Server) handleProfileDefaults(w http.ResponseWriter, r *http.Request) {
	var profile types.UserProfile
	if err := decodeJSONBody(w, r, &profile); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	writeJSON(w, profile.DeriveRequestDefaults())
}
