package httpapi

import (
	"net/http"

	"github.com/pitchside/matchday/internal/domain/user"
)

// ResolveChallenge serves the public challenge surface. A bearer token is
// optional; when present the snapshot carries the caller's derived
// permissions.
func (h *Handler) ResolveChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveChallenge")
	defer span.End()

	var caller *user.Principal
	if principal, ok := principalFromContext(ctx); ok {
		caller = &principal
	}

	token := r.PathValue("token")
	snapshot, err := h.challengeService.Resolve(ctx, token, caller)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve challenge failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(snapshot))
}
