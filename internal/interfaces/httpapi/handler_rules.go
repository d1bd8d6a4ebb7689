package httpapi

import (
	"net/http"

	"github.com/pitchside/matchday/internal/usecase"
)

type upsertRulesRequest struct {
	QuarterCount        int  `json:"quarter_count" validate:"required,min=1,max=8"`
	QuarterMinutes      int  `json:"quarter_minutes" validate:"required,min=1,max=45"`
	QuarterBreakMinutes int  `json:"quarter_break_minutes" validate:"min=0,max=30"`
	HalftimeMinutes     int  `json:"halftime_minutes" validate:"min=0,max=45"`
	PlayersPerSide      int  `json:"players_per_side" validate:"required,min=3,max=11"`
	OffsideEnabled      bool `json:"offside_enabled"`
	SlidingAllowed      bool `json:"sliding_allowed"`
}

func (h *Handler) UpsertRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertRules")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req upsertRulesRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	agreement, err := h.rulesService.Upsert(ctx, principal, matchID, usecase.UpsertRulesInput{
		QuarterCount:        req.QuarterCount,
		QuarterMinutes:      req.QuarterMinutes,
		QuarterBreakMinutes: req.QuarterBreakMinutes,
		HalftimeMinutes:     req.HalftimeMinutes,
		PlayersPerSide:      req.PlayersPerSide,
		OffsideEnabled:      req.OffsideEnabled,
		SlidingAllowed:      req.SlidingAllowed,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert rules failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rulesToDTO(agreement))
}

func (h *Handler) AgreeRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AgreeRules")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	agreement, confirmed, err := h.rulesService.Agree(ctx, principal, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "agree rules failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"rules":     rulesToDTO(agreement),
		"confirmed": confirmed,
	})
}

func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRules")
	defer span.End()

	if _, err := requirePrincipal(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	agreement, err := h.rulesService.GetByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get rules failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rulesToDTO(agreement))
}
