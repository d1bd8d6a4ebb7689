package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/domain/rules"
	matchmock "github.com/pitchside/matchday/internal/mocks/domain/match"
	rulesmock "github.com/pitchside/matchday/internal/mocks/domain/rules"
	"github.com/stretchr/testify/mock"
)

func TestRulesService_GetByMatch_ResolvesMirrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	rulesRepo := rulesmock.NewRepository(t)

	service := NewRulesService(matchRepo, rulesRepo, NopNotifier{}, nil)

	mirror := match.Record{
		ID:             "rec-mirror",
		TeamID:         "team-b",
		Host:           false,
		OpponentTeamID: "team-a",
		LinkedRecordID: "rec-host",
		Status:         match.StatusRulesPending,
	}
	host := match.Record{
		ID:             "rec-host",
		TeamID:         "team-a",
		Host:           true,
		OpponentTeamID: "team-b",
		LinkedRecordID: "rec-mirror",
		Status:         match.StatusRulesPending,
	}
	agreement := rules.Agreement{MatchID: "rec-host", QuarterCount: 4, QuarterMinutes: 10}

	matchRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "rec-mirror").
		Return(mirror, true, nil).
		Once()
	matchRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "rec-host").
		Return(host, true, nil).
		Once()
	rulesRepo.
		On("GetByMatch", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "rec-host").
		Return(agreement, true, nil).
		Once()

	got, err := service.GetByMatch(ctx, "rec-mirror")
	if err != nil {
		t.Fatalf("get rules by match: %v", err)
	}
	if got.MatchID != "rec-host" {
		t.Fatalf("agreement not keyed by host record: %s", got.MatchID)
	}
	if got.QuarterCount != 4 {
		t.Fatalf("unexpected quarter count: %d", got.QuarterCount)
	}
}

func TestRulesService_GetByMatch_MissingAgreementUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	rulesRepo := rulesmock.NewRepository(t)

	service := NewRulesService(matchRepo, rulesRepo, NopNotifier{}, nil)

	host := match.Record{
		ID:             "rec-host",
		TeamID:         "team-a",
		Host:           true,
		OpponentTeamID: "team-b",
		LinkedRecordID: "rec-mirror",
		Status:         match.StatusConfirmed,
	}
	mirror := match.Record{
		ID:             "rec-mirror",
		TeamID:         "team-b",
		Host:           false,
		LinkedRecordID: "rec-host",
		Status:         match.StatusConfirmed,
	}

	matchRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "rec-host").
		Return(host, true, nil).
		Once()
	matchRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "rec-mirror").
		Return(mirror, true, nil).
		Once()
	rulesRepo.
		On("GetByMatch", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "rec-host").
		Return(rules.Agreement{}, false, nil).
		Once()

	_, err := service.GetByMatch(ctx, "rec-host")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
