package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pitchside/matchday/internal/usecase"
)

type generateChallengeRequest struct {
	Deadline *time.Time `json:"deadline" validate:"omitempty"`
}

func (h *Handler) GenerateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateChallenge")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req := generateChallengeRequest{}
	if r.ContentLength > 0 {
		if err := h.decodeBody(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	matchID := r.PathValue("matchID")
	record, err := h.lifecycleService.GenerateChallenge(ctx, principal, matchID, req.Deadline)
	if err != nil {
		h.logger.WarnContext(ctx, "generate challenge failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(record))
}

func (h *Handler) RevokeChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RevokeChallenge")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	record, err := h.lifecycleService.RevokeChallenge(ctx, principal, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "revoke challenge failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(record))
}

func (h *Handler) AcceptChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptChallenge")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	token := r.PathValue("token")
	record, err := h.lifecycleService.AcceptChallenge(ctx, principal, token)
	if err != nil {
		h.logger.WarnContext(ctx, "accept challenge failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(record))
}

type pairDirectRequest struct {
	OpponentTeamID string `json:"opponent_team_id" validate:"required"`
}

func (h *Handler) PairDirect(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PairDirect")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req pairDirectRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	record, err := h.lifecycleService.PairDirect(ctx, principal, matchID, req.OpponentTeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "pair direct failed", "match_id", matchID, "opponent_team_id", req.OpponentTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(record))
}

func (h *Handler) AcceptPairing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptPairing")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	record, err := h.lifecycleService.AcceptPairing(ctx, principal, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "accept pairing failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(record))
}

func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	record, err := h.lifecycleService.Start(ctx, principal, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "start match failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(record))
}

func (h *Handler) CompleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	record, err := h.lifecycleService.Complete(ctx, principal, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "complete match failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(record))
}

type cancelMatchRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

func (h *Handler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req := cancelMatchRequest{}
	if r.ContentLength > 0 {
		if err := h.decodeBody(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
		if err := h.validateRequest(ctx, req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	matchID := r.PathValue("matchID")
	record, err := h.lifecycleService.Cancel(ctx, principal, matchID, req.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel match failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(record))
}

func (h *Handler) ConvertToRegular(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConvertToRegular")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	if err := h.lifecycleService.ConvertToRegular(ctx, principal, matchID); err != nil {
		h.logger.WarnContext(ctx, "convert to regular failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "converted"})
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.URL.Query().Get("teamID"))
	if teamID == "" {
		teamID = principal.TeamID
	}
	if teamID == "" {
		writeError(ctx, w, fmt.Errorf("%w: teamID is required", usecase.ErrInvalidInput))
		return
	}

	records, err := h.lifecycleService.ListByTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchRecordDTO, 0, len(records))
	for _, record := range records {
		items = append(items, matchToDTO(record))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	if _, err := requirePrincipal(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	record, err := h.lifecycleService.GetRecord(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(record))
}
