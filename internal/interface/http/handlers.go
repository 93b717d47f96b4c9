package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/deutschflow/deutschflow-hub/internal/application/command"
	"github.com/deutschflow/deutschflow-hub/internal/application/query"
	"github.com/deutschflow/deutschflow-hub/internal/domain/catalog"
	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
	"github.com/deutschflow/deutschflow-hub/pkg/logger"
)

// maxBodyBytes bounds request bodies; mini-app payloads are tiny.
const maxBodyBytes = 64 << 10

// telegramIDHeader carries the learner identity supplied by the mini-app
// container. Requests without it fall back to the configured demo learner.
const telegramIDHeader = "X-Telegram-ID"

// userIDHeader carries the opaque directory identifier for profile reads.
const userIDHeader = "X-User-ID"

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		status := s.deps.Health.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": s.Uptime().String(),
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		status := s.deps.Health.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleAPIHealth mirrors the health shape the mini app polls.
func (s *Server) handleAPIHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": s.Uptime().Seconds(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// LEARNER READ HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetSummary handles GET /api/summary
func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := s.learnerID(w, r)
	if !ok {
		return
	}

	summary, err := s.deps.Summary.Handle(r.Context(), query.GetSummaryQuery{TelegramID: id})
	if err != nil {
		s.serverError(w, r, "get summary", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleGetLimits handles GET /api/limits
func (s *Server) handleGetLimits(w http.ResponseWriter, r *http.Request) {
	id, ok := s.learnerID(w, r)
	if !ok {
		return
	}

	limits, err := s.deps.Limits.Handle(r.Context(), query.GetLimitsQuery{TelegramID: id})
	if err != nil {
		s.serverError(w, r, "get limits", err)
		return
	}

	writeJSON(w, http.StatusOK, limits)
}

// handleGetReferral handles GET /api/referral
func (s *Server) handleGetReferral(w http.ResponseWriter, r *http.Request) {
	id, ok := s.learnerID(w, r)
	if !ok {
		return
	}

	view, err := s.deps.Referral.Handle(r.Context(), query.GetReferralStatusQuery{TelegramID: id})
	if err != nil {
		s.serverError(w, r, "get referral status", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// handleGetProfile handles GET /api/profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.deps.Profile.Handle(r.Context(), query.GetProfileQuery{
		UserID: strings.TrimSpace(r.Header.Get(userIDHeader)),
	})
	if err != nil {
		s.serverError(w, r, "get profile", err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetPricing handles GET /api/pricing
func (s *Server) handleGetPricing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalog.CurrentPricing())
}

// handleGetPayments handles GET /api/payments
func (s *Server) handleGetPayments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalog.CurrentPayments())
}

// handleGetContent handles GET /api/content?key=
func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	page, err := catalog.PageByKey(r.URL.Query().Get("key"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Content not found")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// handleGetMode handles GET /api/mode?key=
func (s *Server) handleGetMode(w http.ResponseWriter, r *http.Request) {
	mode, err := catalog.ModeByKey(r.URL.Query().Get("key"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Mode not found")
		return
	}

	writeJSON(w, http.StatusOK, mode)
}

// handleGetAd handles GET /api/ad
func (s *Server) handleGetAd(w http.ResponseWriter, _ *http.Request) {
	partner := s.deps.Random.AdPartner()
	writeJSON(w, http.StatusOK, map[string]string{
		"title": catalog.AdSlotTitle,
		"text":  catalog.AdSlotText(partner),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// LEARNER INTENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleStartLesson handles POST /api/lesson
func (s *Server) handleStartLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := s.learnerID(w, r)
	if !ok {
		return
	}

	result, err := s.deps.StartLesson.Handle(r.Context(), command.StartLessonCommand{TelegramID: id})
	if err != nil {
		s.commandError(w, r, "start lesson", err)
		return
	}

	status := http.StatusOK
	if result.Outcome == learner.LessonLimitReached {
		status = http.StatusTooManyRequests
	}

	writeJSON(w, status, map[string]interface{}{
		"title":   result.Title,
		"text":    result.Text,
		"summary": result.Summary,
	})
}

// handleSetFocus handles POST /api/focus
func (s *Server) handleSetFocus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.learnerID(w, r)
	if !ok {
		return
	}

	var body struct {
		Focus string `json:"focus"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	result, err := s.deps.SetFocus.Handle(r.Context(), command.SetFocusCommand{
		TelegramID: id,
		Focus:      body.Focus,
	})
	if err != nil {
		s.commandError(w, r, "set focus", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": result.Message,
		"summary": result.Summary,
	})
}

// handleInvokeAction handles POST /api/action
func (s *Server) handleInvokeAction(w http.ResponseWriter, r *http.Request) {
	id, ok := s.learnerID(w, r)
	if !ok {
		return
	}

	var body struct {
		Action string `json:"action"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	result, err := s.deps.InvokeAction.Handle(r.Context(), command.InvokeActionCommand{
		TelegramID: id,
		Action:     body.Action,
	})
	if err != nil {
		s.commandError(w, r, "invoke action", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": result.Message,
		"summary": result.Summary,
	})
}

// handleUpsertUser handles POST /api/user
func (s *Server) handleUpsertUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		User struct {
			ID           json.RawMessage `json:"id"`
			FirstName    string          `json:"first_name"`
			LastName     string          `json:"last_name"`
			Username     string          `json:"username"`
			LanguageCode string          `json:"language_code"`
		} `json:"user"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	record, err := s.deps.UpsertUser.Handle(r.Context(), command.UpsertUserCommand{
		ID:           rawID(body.User.ID),
		FirstName:    body.User.FirstName,
		LastName:     body.User.LastName,
		Username:     body.User.Username,
		LanguageCode: body.User.LanguageCode,
	})
	if err != nil {
		s.serverError(w, r, "upsert user", err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleAskAI handles POST /api/ai
func (s *Server) handleAskAI(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prompt string `json:"prompt"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	reply, err := s.deps.AskAI.Handle(r.Context(), command.AskAICommand{Prompt: body.Prompt})
	if err != nil {
		if errors.Is(err, command.ErrEmptyPrompt) {
			writeError(w, http.StatusBadRequest, "Prompt is required")
			return
		}
		s.serverError(w, r, "ask ai", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"reply":  reply.Text,
		"source": reply.Source,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleAdminSummary handles GET /api/admin/summary
func (s *Server) handleAdminSummary(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.AdminSummary.Handle(r.Context())
	if err != nil {
		s.serverError(w, r, "admin summary", err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleAdminContent handles GET /api/admin/content
func (s *Server) handleAdminContent(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Library.Content())
}

// handleAdminModeration handles GET /api/admin/moderation
func (s *Server) handleAdminModeration(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Library.Moderation())
}

// handleAdminAction handles POST /api/admin/action
func (s *Server) handleAdminAction(w http.ResponseWriter, r *http.Request) {
	id, ok := s.learnerID(w, r)
	if !ok {
		return
	}

	var body struct {
		Action string `json:"action"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	switch body.Action {
	case "resetLimits":
		result, err := s.deps.ResetLimits.Handle(r.Context(), command.ResetLimitsCommand{TelegramID: id})
		if err != nil {
			s.commandError(w, r, "reset limits", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  result.Status,
			"message": result.Message,
			"summary": result.Summary,
		})

	case "toggleAdsGlobal":
		result, err := s.deps.ToggleAdsGlobal.Handle(r.Context())
		if err != nil {
			s.serverError(w, r, "toggle ads global", err)
			return
		}

		payload := map[string]interface{}{
			"status":  result.Status,
			"message": result.Message,
		}
		// The admin console redraws the learner summary after the toggle.
		// The toggle itself succeeded, so a summary failure only degrades
		// the response.
		if summary, err := s.deps.Summary.Handle(r.Context(), query.GetSummaryQuery{TelegramID: id}); err == nil {
			payload["summary"] = summary
		} else {
			s.logger.Warn("summary lookup after ads toggle failed",
				logger.String("operation", "toggle ads global"),
				logger.Int64("telegram_id", int64(id)),
				logger.Err(err),
			)
		}
		writeJSON(w, http.StatusOK, payload)

	default:
		writeError(w, http.StatusBadRequest, "Unknown admin action")
	}
}

// handleAdminAddContent handles POST /api/admin/content
func (s *Server) handleAdminAddContent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	item, err := s.deps.ManageContent.HandleAddContent(r.Context(), command.AddContentCommand{
		Title:  body.Title,
		Status: body.Status,
	})
	if err != nil {
		s.serverError(w, r, "add content", err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// handleAdminResolveModeration handles POST /api/admin/moderation
func (s *Server) handleAdminResolveModeration(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	item, err := s.deps.ManageContent.HandleResolveModeration(r.Context(), command.ResolveModerationCommand{
		ID:     body.ID,
		Status: body.Status,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrModerationItemNotFound) {
			writeError(w, http.StatusNotFound, "Item not found")
			return
		}
		s.serverError(w, r, "resolve moderation", err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// learnerID resolves the learner identity for the request. A missing header
// falls back to the configured demo learner; a malformed one is a client error.
func (s *Server) learnerID(w http.ResponseWriter, r *http.Request) (learner.TelegramID, bool) {
	raw := strings.TrimSpace(r.Header.Get(telegramIDHeader))
	if raw == "" {
		return learner.TelegramID(s.config.DefaultTelegramID), true
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid telegram id")
		return 0, false
	}

	return learner.TelegramID(value), true
}

// decodeBody decodes a JSON request body into dst. An empty body decodes to
// the zero value, mirroring how the mini app omits optional fields.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	return true
}

// commandError maps application errors to the response taxonomy: domain
// rejections are client errors, everything else is a server failure.
func (s *Server) commandError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, learner.ErrUnknownFocus):
		writeError(w, http.StatusBadRequest, "Unknown focus area")
	case errors.Is(err, learner.ErrUnknownAction):
		writeError(w, http.StatusBadRequest, "Unknown action")
	case errors.Is(err, learner.ErrInvalidTelegramID):
		writeError(w, http.StatusBadRequest, "Invalid telegram id")
	default:
		s.serverError(w, r, op, err)
	}
}

// serverError logs the failure and returns a generic 500.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error("request failed",
		logger.String("operation", op),
		logger.String("request_id", getRequestID(r.Context())),
		logger.Err(err),
	)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// rawID normalizes the platform user identifier, which arrives as either a
// JSON number or a string depending on the container version.
func rawID(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	if unquoted, err := strconv.Unquote(trimmed); err == nil {
		return unquoted
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		return number.String()
	}
	return trimmed
}
