package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/vinchivii/detonation-scanner/internal/models"
	"github.com/vinchivii/detonation-scanner/internal/scan"
	"github.com/vinchivii/detonation-scanner/internal/store/postgres"
)

// scanResponse is the wire shape of POST /api/v1/scan.
type scanResponse struct {
	Results []models.ScanResult `json:"results"`
	Summary models.ScanSummary  `json:"summary"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid scan request: "+err.Error())
		return
	}

	results, summary, err := s.pipeline.Run(r.Context(), req)
	if err != nil {
		// The only pipeline-fatal condition is a missing price source;
		// everything else degrades inside the pipeline.
		status := http.StatusInternalServerError
		if errors.Is(err, scan.ErrNoQuoteProviders) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err.Error())
		return
	}

	if s.store != nil {
		if err := s.store.RecordScan(r.Context(), summary.ScanID, req, results); err != nil {
			log.Warn().Err(err).Str("scan_id", summary.ScanID).Msg("Failed to record scan history")
		}
	}

	writeJSON(w, http.StatusOK, scanResponse{Results: results, Summary: summary})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{"status": "ok"}
	if s.guardStates != nil {
		health["providers"] = s.guardStates()
	}
	writeJSON(w, http.StatusOK, health)
}

type saveProfileRequest struct {
	Name    string             `json:"name"`
	Request models.ScanRequest `json:"request"`
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req saveProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "profile name is required")
		return
	}

	if err := s.store.SaveProfile(r.Context(), req.Name, req.Request); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListProfiles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	profile, err := s.store.GetProfile(r.Context(), name)
	if err != nil {
		if postgres.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProfile(r.Context(), mux.Vars(r)["name"]); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.Watchlist(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAddWatchlist(w http.ResponseWriter, r *http.Request) {
	var snapshot models.ScanResult
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot: "+err.Error())
		return
	}
	if snapshot.Ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	if err := s.store.AddToWatchlist(r.Context(), snapshot); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveFromWatchlist(r.Context(), mux.Vars(r)["ticker"]); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := s.store.History(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
