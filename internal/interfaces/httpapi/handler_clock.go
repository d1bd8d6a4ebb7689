package httpapi

import (
	"net/http"

	"github.com/pitchside/matchday/internal/usecase"
)

type phaseClockRequest struct {
	Action      string `json:"action" validate:"required,oneof=START PAUSE NEXT PREV SET_PHASE"`
	TargetPhase int    `json:"target_phase" validate:"min=0"`
}

func (h *Handler) ApplyPhaseClock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyPhaseClock")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req phaseClockRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	state, err := h.phaseClockService.Apply(ctx, principal, matchID, req.Action, req.TargetPhase)
	if err != nil {
		h.logger.WarnContext(ctx, "phase clock command failed", "match_id", matchID, "action", req.Action, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, phaseClockToDTO(state))
}

func (h *Handler) ReadPhaseClock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReadPhaseClock")
	defer span.End()

	if _, err := requirePrincipal(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	state, err := h.phaseClockService.Read(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "phase clock read failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, phaseClockToDTO(state))
}

type refereeClockRequest struct {
	Quarter       int    `json:"quarter" validate:"required,min=1"`
	Action        string `json:"action" validate:"required,oneof=START PAUSE RESUME END ADJUST"`
	AdjustSeconds int    `json:"adjust_seconds"`
}

func (h *Handler) ApplyRefereeClock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyRefereeClock")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req refereeClockRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	assignment, err := h.refereeClockService.Apply(ctx, principal, matchID, req.Quarter, req.Action, req.AdjustSeconds)
	if err != nil {
		h.logger.WarnContext(ctx, "referee clock command failed", "match_id", matchID, "quarter", req.Quarter, "action", req.Action, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, refereeToDTO(assignment))
}

type assignRefereesRequest struct {
	Assignments []assignRefereeItem `json:"assignments" validate:"required,min=1,dive"`
}

type assignRefereeItem struct {
	Quarter       int    `json:"quarter" validate:"required,min=1"`
	RefereeUserID string `json:"referee_user_id" validate:"required"`
	TeamSide      string `json:"team_side" validate:"required,oneof=TEAM_A TEAM_B"`
}

func (h *Handler) AssignReferees(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignReferees")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req assignRefereesRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	inputs := make([]usecase.AssignRefereeInput, 0, len(req.Assignments))
	for _, item := range req.Assignments {
		inputs = append(inputs, usecase.AssignRefereeInput{
			Quarter:       item.Quarter,
			RefereeUserID: item.RefereeUserID,
			TeamSide:      item.TeamSide,
		})
	}

	matchID := r.PathValue("matchID")
	assignments, err := h.refereeClockService.Assign(ctx, principal, matchID, inputs)
	if err != nil {
		h.logger.WarnContext(ctx, "assign referees failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, refereesToDTO(assignments))
}

func (h *Handler) ListReferees(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListReferees")
	defer span.End()

	if _, err := requirePrincipal(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	assignments, err := h.refereeClockService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list referees failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, refereesToDTO(assignments))
}
