package ledger

import "testing"

func TestFlipSide_RoundTrip(t *testing.T) {
	t.Parallel()

	if FlipSide(SideTeamA) != SideTeamB {
		t.Fatalf("expected TEAM_A to flip to TEAM_B, got %s", FlipSide(SideTeamA))
	}
	if FlipSide(FlipSide(SideTeamA)) != SideTeamA {
		t.Fatal("double flip must be identity for TEAM_A")
	}
	if FlipSide(FlipSide(SideTeamB)) != SideTeamB {
		t.Fatal("double flip must be identity for TEAM_B")
	}
}

func TestRecompute_CountsPerSide(t *testing.T) {
	t.Parallel()

	goals := []Goal{
		{ID: "g-1", Side: SideTeamA},
		{ID: "g-2", Side: SideTeamB},
		{ID: "g-3", Side: SideTeamA, OwnGoal: true},
		{ID: "g-4", Side: SideTeamA},
	}

	scores := Recompute(goals)
	if scores.TeamA != 3 || scores.TeamB != 1 {
		t.Fatalf("expected 3-1, got %d-%d", scores.TeamA, scores.TeamB)
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	t.Parallel()

	goals := []Goal{
		{ID: "g-1", Side: SideTeamB},
		{ID: "g-2", Side: SideTeamB},
	}

	first := Recompute(goals)
	second := Recompute(goals)
	if first != second {
		t.Fatalf("expected identical recompute results, got %+v vs %+v", first, second)
	}
}

func TestRecompute_EmptyLedger(t *testing.T) {
	t.Parallel()

	scores := Recompute(nil)
	if scores.TeamA != 0 || scores.TeamB != 0 {
		t.Fatalf("expected 0-0 for empty ledger, got %d-%d", scores.TeamA, scores.TeamB)
	}
}
