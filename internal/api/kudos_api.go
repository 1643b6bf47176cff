package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tutu-network/kudos/internal/domain"
	"github.com/tutu-network/kudos/internal/health"
	"go.uber.org/zap"
)

// --- POST /generate-social-nudges ---

func (s *Server) handleGenerateSocialNudges(w http.ResponseWriter, r *http.Request) {
	var req domain.SocialNudgeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeValidation(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.evaluator.Evaluate(req))
}

// --- Popular tags ---

type tagUpdateRequest struct {
	PopularTags domain.PopularTags `json:"popular_tags"`
}

type tagUpdateResponse struct {
	Status string `json:"status"`
	domain.TagUpdate
}

func (s *Server) handleUpdatePopularTags(w http.ResponseWriter, r *http.Request) {
	var req tagUpdateRequest
	if !s.decode(w, r, &req) {
		return
	}
	upd, err := s.tags.Update(req.PopularTags)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			s.writeValidation(w, err)
			return
		}
		s.logger.Error("popular tag update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update popular tags")
		return
	}
	writeJSON(w, http.StatusOK, tagUpdateResponse{Status: "updated", TagUpdate: upd})
}

func (s *Server) handlePopularTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"popular_tags": s.tags.Snapshot(),
	})
}

const defaultHistoryLimit = 20

func (s *Server) handlePopularTagHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	revs, err := s.tags.History(limit)
	if err != nil {
		s.logger.Error("tag history unavailable", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read tag history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"revisions": revs,
	})
}

// --- Operational ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var statuses []health.Status
	if s.health != nil {
		statuses = s.health.RunOnce(r.Context())
	}

	checks := make(map[string]string, len(statuses))
	for _, st := range statuses {
		if st.Healthy {
			checks[st.Name] = "ok"
		} else {
			checks[st.Name] = "error: " + st.Error
		}
	}

	status, code := "ok", http.StatusOK
	if !health.AllHealthy(statuses) {
		status, code = "fail", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"model_version":   s.modelVersion,
		"service_version": s.serviceVersion,
	})
}

// --- Helpers ---

// decode reads a JSON body into v. Unknown fields are ignored. On failure
// it writes a 400 and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorType(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func (s *Server) writeValidation(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error": map[string]interface{}{
				"message": ve.Error(),
				"type":    "validation_error",
				"field":   ve.Field,
			},
		})
		return
	}
	writeErrorType(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
}
