package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerChallengeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/challenges/{token}", OptionalAuth(verifier, http.HandlerFunc(handler.ResolveChallenge)))
	mux.Handle("POST /v1/challenges/{token}/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptChallenge)))
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.ListMatches)))
	mux.Handle("GET /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMatch)))

	mux.Handle("POST /v1/matches/{matchID}/challenge", RequireAuth(verifier, http.HandlerFunc(handler.GenerateChallenge)))
	mux.Handle("DELETE /v1/matches/{matchID}/challenge", RequireAuth(verifier, http.HandlerFunc(handler.RevokeChallenge)))
	mux.Handle("POST /v1/matches/{matchID}/pair", RequireAuth(verifier, http.HandlerFunc(handler.PairDirect)))
	mux.Handle("POST /v1/matches/{matchID}/pair/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptPairing)))
	mux.Handle("POST /v1/matches/{matchID}/start", RequireAuth(verifier, http.HandlerFunc(handler.StartMatch)))
	mux.Handle("POST /v1/matches/{matchID}/complete", RequireAuth(verifier, http.HandlerFunc(handler.CompleteMatch)))
	mux.Handle("POST /v1/matches/{matchID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelMatch)))
	mux.Handle("POST /v1/matches/{matchID}/convert", RequireAuth(verifier, http.HandlerFunc(handler.ConvertToRegular)))

	mux.Handle("GET /v1/matches/{matchID}/rules", RequireAuth(verifier, http.HandlerFunc(handler.GetRules)))
	mux.Handle("PUT /v1/matches/{matchID}/rules", RequireAuth(verifier, http.HandlerFunc(handler.UpsertRules)))
	mux.Handle("POST /v1/matches/{matchID}/rules/agree", RequireAuth(verifier, http.HandlerFunc(handler.AgreeRules)))

	mux.Handle("GET /v1/matches/{matchID}/phase-clock", RequireAuth(verifier, http.HandlerFunc(handler.ReadPhaseClock)))
	mux.Handle("POST /v1/matches/{matchID}/phase-clock", RequireAuth(verifier, http.HandlerFunc(handler.ApplyPhaseClock)))
	mux.Handle("POST /v1/matches/{matchID}/referee-clock", RequireAuth(verifier, http.HandlerFunc(handler.ApplyRefereeClock)))
	mux.Handle("GET /v1/matches/{matchID}/referees", RequireAuth(verifier, http.HandlerFunc(handler.ListReferees)))
	mux.Handle("PUT /v1/matches/{matchID}/referees", RequireAuth(verifier, http.HandlerFunc(handler.AssignReferees)))

	mux.Handle("POST /v1/matches/{matchID}/goals", RequireAuth(verifier, http.HandlerFunc(handler.RecordGoal)))
	mux.Handle("POST /v1/matches/{matchID}/cards", RequireAuth(verifier, http.HandlerFunc(handler.RecordCard)))
	mux.Handle("POST /v1/matches/{matchID}/substitutions", RequireAuth(verifier, http.HandlerFunc(handler.RecordSubstitution)))
	mux.Handle("GET /v1/matches/{matchID}/scores", RequireAuth(verifier, http.HandlerFunc(handler.GetScores)))
}
