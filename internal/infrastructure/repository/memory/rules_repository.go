package memory

import (
	"context"
	"sync"

	"github.com/pitchside/matchday/internal/domain/rules"
)

type RulesRepository struct {
	mu    sync.RWMutex
	items map[string]rules.Agreement
}

func NewRulesRepository() *RulesRepository {
	return &RulesRepository{items: make(map[string]rules.Agreement)}
}

func (r *RulesRepository) GetByMatch(_ context.Context, matchID string) (rules.Agreement, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	return item, ok, nil
}

func (r *RulesRepository) Upsert(_ context.Context, agreement rules.Agreement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[agreement.MatchID] = agreement
	return nil
}
