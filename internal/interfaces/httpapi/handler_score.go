package httpapi

import (
	"net/http"

	"github.com/pitchside/matchday/internal/usecase"
)

type recordGoalRequest struct {
	Quarter     int    `json:"quarter" validate:"required,min=1"`
	Minute      int    `json:"minute" validate:"min=0"`
	Side        string `json:"side" validate:"required,oneof=TEAM_A TEAM_B"`
	ScorerID    string `json:"scorer_id" validate:"required"`
	AssistantID string `json:"assistant_id" validate:"omitempty"`
	OwnGoal     bool   `json:"own_goal"`
}

func (h *Handler) RecordGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordGoal")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordGoalRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	scores, err := h.scoreService.RecordGoal(ctx, principal, matchID, usecase.RecordGoalInput{
		Quarter:     req.Quarter,
		Minute:      req.Minute,
		Side:        req.Side,
		ScorerID:    req.ScorerID,
		AssistantID: req.AssistantID,
		OwnGoal:     req.OwnGoal,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record goal failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, scoresDTO{TeamA: scores.TeamA, TeamB: scores.TeamB})
}

type recordCardRequest struct {
	Quarter  int    `json:"quarter" validate:"required,min=1"`
	Minute   int    `json:"minute" validate:"min=0"`
	Side     string `json:"side" validate:"required,oneof=TEAM_A TEAM_B"`
	PlayerID string `json:"player_id" validate:"required"`
	CardType string `json:"card_type" validate:"required,oneof=YELLOW RED"`
}

func (h *Handler) RecordCard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordCard")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordCardRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	card, err := h.scoreService.RecordCard(ctx, principal, matchID, usecase.RecordCardInput{
		Quarter:  req.Quarter,
		Minute:   req.Minute,
		Side:     req.Side,
		PlayerID: req.PlayerID,
		CardType: req.CardType,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record card failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, cardToDTO(card))
}

type recordSubstitutionRequest struct {
	Quarter     int    `json:"quarter" validate:"required,min=1"`
	Minute      int    `json:"minute" validate:"min=0"`
	Side        string `json:"side" validate:"required,oneof=TEAM_A TEAM_B"`
	PlayerOutID string `json:"player_out_id" validate:"required"`
	PlayerInID  string `json:"player_in_id" validate:"required"`
}

func (h *Handler) RecordSubstitution(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordSubstitution")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordSubstitutionRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	sub, err := h.scoreService.RecordSubstitution(ctx, principal, matchID, usecase.RecordSubstitutionInput{
		Quarter:     req.Quarter,
		Minute:      req.Minute,
		Side:        req.Side,
		PlayerOutID: req.PlayerOutID,
		PlayerInID:  req.PlayerInID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record substitution failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, substitutionToDTO(sub))
}

func (h *Handler) GetScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScores")
	defer span.End()

	if _, err := requirePrincipal(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	scores, err := h.scoreService.Scores(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get scores failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoresDTO{TeamA: scores.TeamA, TeamB: scores.TeamB})
}
