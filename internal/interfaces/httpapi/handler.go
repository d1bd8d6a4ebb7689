package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/pitchside/matchday/internal/domain/user"
	"github.com/pitchside/matchday/internal/usecase"
)

type Handler struct {
	lifecycleService    *usecase.LifecycleService
	challengeService    *usecase.ChallengeService
	rulesService        *usecase.RulesService
	phaseClockService   *usecase.PhaseClockService
	refereeClockService *usecase.RefereeClockService
	scoreService        *usecase.ScoreService
	logger              *slog.Logger
	validator           *validator.Validate
}

func NewHandler(
	lifecycleService *usecase.LifecycleService,
	challengeService *usecase.ChallengeService,
	rulesService *usecase.RulesService,
	phaseClockService *usecase.PhaseClockService,
	refereeClockService *usecase.RefereeClockService,
	scoreService *usecase.ScoreService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		lifecycleService:    lifecycleService,
		challengeService:    challengeService,
		rulesService:        rulesService,
		phaseClockService:   phaseClockService,
		refereeClockService: refereeClockService,
		scoreService:        scoreService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) decodeBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}
