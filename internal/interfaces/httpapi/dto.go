package httpapi

import (
	"time"

	"github.com/pitchside/matchday/internal/domain/ledger"
	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/domain/referee"
	"github.com/pitchside/matchday/internal/domain/rules"
	"github.com/pitchside/matchday/internal/domain/team"
	"github.com/pitchside/matchday/internal/usecase"
)

type matchRecordDTO struct {
	ID             string     `json:"id"`
	TeamID         string     `json:"team_id"`
	IsHost         bool       `json:"is_host"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
	Status         string     `json:"status"`
	OpponentTeamID string     `json:"opponent_team_id,omitempty"`
	LinkedRecordID string     `json:"linked_record_id,omitempty"`
	ChallengeToken string     `json:"challenge_token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	TeamAScore     int        `json:"team_a_score"`
	TeamBScore     int        `json:"team_b_score"`
	MinimumPlayers int        `json:"minimum_players"`
	CancelReason   string     `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func matchToDTO(record match.Record) matchRecordDTO {
	return matchRecordDTO{
		ID:             record.ID,
		TeamID:         record.TeamID,
		IsHost:         record.Host,
		ScheduledAt:    record.ScheduledAt,
		Status:         record.Status,
		OpponentTeamID: record.OpponentTeamID,
		LinkedRecordID: record.LinkedRecordID,
		ChallengeToken: record.ChallengeToken,
		TokenExpiresAt: record.TokenExpiresAt,
		TeamAScore:     record.TeamAScore,
		TeamBScore:     record.TeamBScore,
		MinimumPlayers: record.MinimumPlayers,
		CancelReason:   record.CancelReason,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

type rulesDTO struct {
	MatchID             string    `json:"match_id"`
	QuarterCount        int       `json:"quarter_count"`
	QuarterMinutes      int       `json:"quarter_minutes"`
	QuarterBreakMinutes int       `json:"quarter_break_minutes"`
	HalftimeMinutes     int       `json:"halftime_minutes"`
	PlayersPerSide      int       `json:"players_per_side"`
	OffsideEnabled      bool      `json:"offside_enabled"`
	SlidingAllowed      bool      `json:"sliding_allowed"`
	AgreedByTeamA       bool      `json:"agreed_by_team_a"`
	AgreedByTeamB       bool      `json:"agreed_by_team_b"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func rulesToDTO(agreement rules.Agreement) rulesDTO {
	return rulesDTO{
		MatchID:             agreement.MatchID,
		QuarterCount:        agreement.QuarterCount,
		QuarterMinutes:      agreement.QuarterMinutes,
		QuarterBreakMinutes: agreement.QuarterBreakMinutes,
		HalftimeMinutes:     agreement.HalftimeMinutes,
		PlayersPerSide:      agreement.PlayersPerSide,
		OffsideEnabled:      agreement.OffsideEnabled,
		SlidingAllowed:      agreement.SlidingAllowed,
		AgreedByTeamA:       agreement.AgreedByTeamA,
		AgreedByTeamB:       agreement.AgreedByTeamB,
		UpdatedAt:           agreement.UpdatedAt,
	}
}

type phaseClockDTO struct {
	CurrentPhase        int        `json:"current_phase"`
	Running             bool       `json:"running"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
	ElapsedSeconds      int        `json:"elapsed_seconds"`
	QuarterCount        int        `json:"quarter_count"`
	QuarterMinutes      int        `json:"quarter_minutes"`
	QuarterBreakMinutes int        `json:"quarter_break_minutes"`
	HalftimeMinutes     int        `json:"halftime_minutes"`
	Phases              []phaseDTO `json:"phases"`
}

type phaseDTO struct {
	Type            string `json:"type"`
	DurationSeconds int    `json:"duration_seconds"`
}

func phaseClockToDTO(state usecase.PhaseClockState) phaseClockDTO {
	phases := rules.BuildPhases(state.QuarterCount, state.QuarterMinutes, state.QuarterBreakMinutes, state.HalftimeMinutes)
	items := make([]phaseDTO, 0, len(phases))
	for _, p := range phases {
		items = append(items, phaseDTO{Type: p.Type, DurationSeconds: p.DurationSeconds})
	}

	return phaseClockDTO{
		CurrentPhase:        state.CurrentPhase,
		Running:             state.Running,
		StartedAt:           state.StartedAt,
		ElapsedSeconds:      state.ElapsedSeconds,
		QuarterCount:        state.QuarterCount,
		QuarterMinutes:      state.QuarterMinutes,
		QuarterBreakMinutes: state.QuarterBreakMinutes,
		HalftimeMinutes:     state.HalftimeMinutes,
		Phases:              items,
	}
}

type refereeAssignmentDTO struct {
	MatchID        string     `json:"match_id"`
	Quarter        int        `json:"quarter"`
	RefereeUserID  string     `json:"referee_user_id"`
	TeamSide       string     `json:"team_side"`
	TimerStatus    string     `json:"timer_status"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	LastResumedAt  *time.Time `json:"last_resumed_at,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
}

func refereeToDTO(assignment referee.Assignment) refereeAssignmentDTO {
	return refereeAssignmentDTO{
		MatchID:        assignment.MatchID,
		Quarter:        assignment.Quarter,
		RefereeUserID:  assignment.RefereeUserID,
		TeamSide:       assignment.TeamSide,
		TimerStatus:    assignment.TimerStatus,
		ElapsedSeconds: assignment.ElapsedSeconds,
		LastResumedAt:  assignment.LastResumedAt,
		StartedAt:      assignment.StartedAt,
		EndedAt:        assignment.EndedAt,
	}
}

func refereesToDTO(assignments []referee.Assignment) []refereeAssignmentDTO {
	items := make([]refereeAssignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, refereeToDTO(a))
	}
	return items
}

type scoresDTO struct {
	TeamA int `json:"team_a"`
	TeamB int `json:"team_b"`
}

type goalDTO struct {
	ID          string    `json:"id"`
	Quarter     int       `json:"quarter"`
	Minute      int       `json:"minute"`
	Side        string    `json:"side"`
	ScorerID    string    `json:"scorer_id"`
	AssistantID string    `json:"assistant_id,omitempty"`
	OwnGoal     bool      `json:"own_goal"`
	RecordedBy  string    `json:"recorded_by"`
	RecordedAt  time.Time `json:"recorded_at"`
}

func goalToDTO(goal ledger.Goal) goalDTO {
	return goalDTO{
		ID:          goal.ID,
		Quarter:     goal.Quarter,
		Minute:      goal.Minute,
		Side:        goal.Side,
		ScorerID:    goal.ScorerID,
		AssistantID: goal.AssistantID,
		OwnGoal:     goal.OwnGoal,
		RecordedBy:  goal.RecordedBy,
		RecordedAt:  goal.RecordedAt,
	}
}

type cardDTO struct {
	ID         string    `json:"id"`
	Quarter    int       `json:"quarter"`
	Minute     int       `json:"minute"`
	Side       string    `json:"side"`
	PlayerID   string    `json:"player_id"`
	CardType   string    `json:"card_type"`
	RecordedBy string    `json:"recorded_by"`
	RecordedAt time.Time `json:"recorded_at"`
}

func cardToDTO(card ledger.Card) cardDTO {
	return cardDTO{
		ID:         card.ID,
		Quarter:    card.Quarter,
		Minute:     card.Minute,
		Side:       card.Side,
		PlayerID:   card.PlayerID,
		CardType:   card.CardType,
		RecordedBy: card.RecordedBy,
		RecordedAt: card.RecordedAt,
	}
}

type substitutionDTO struct {
	ID          string    `json:"id"`
	Quarter     int       `json:"quarter"`
	Minute      int       `json:"minute"`
	Side        string    `json:"side"`
	PlayerOutID string    `json:"player_out_id"`
	PlayerInID  string    `json:"player_in_id"`
	RecordedBy  string    `json:"recorded_by"`
	RecordedAt  time.Time `json:"recorded_at"`
}

func substitutionToDTO(sub ledger.Substitution) substitutionDTO {
	return substitutionDTO{
		ID:          sub.ID,
		Quarter:     sub.Quarter,
		Minute:      sub.Minute,
		Side:        sub.Side,
		PlayerOutID: sub.PlayerOutID,
		PlayerInID:  sub.PlayerInID,
		RecordedBy:  sub.RecordedBy,
		RecordedAt:  sub.RecordedAt,
	}
}

type teamDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

type memberDTO struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Attending bool   `json:"attending"`
}

type challengeSnapshotDTO struct {
	Match         matchRecordDTO         `json:"match"`
	HostTeam      teamDTO                `json:"host_team"`
	HostRoster    []memberDTO            `json:"host_roster"`
	OpponentTeam  *teamDTO               `json:"opponent_team,omitempty"`
	Rules         *rulesDTO              `json:"rules,omitempty"`
	Referees      []refereeAssignmentDTO `json:"referees"`
	Goals         []goalDTO              `json:"goals"`
	Cards         []cardDTO              `json:"cards"`
	Substitutions []substitutionDTO      `json:"substitutions"`
	Scores        scoresDTO              `json:"scores"`
	CanRecord     bool                   `json:"can_record"`
	CanEnd        bool                   `json:"can_end"`
}

func snapshotToDTO(snapshot usecase.ChallengeSnapshot) challengeSnapshotDTO {
	dto := challengeSnapshotDTO{
		Match:         matchToDTO(snapshot.Match),
		HostTeam:      teamToDTO(snapshot.HostTeam),
		HostRoster:    membersToDTO(snapshot.HostRoster),
		Referees:      refereesToDTO(snapshot.Referees),
		Goals:         make([]goalDTO, 0, len(snapshot.Goals)),
		Cards:         make([]cardDTO, 0, len(snapshot.Cards)),
		Substitutions: make([]substitutionDTO, 0, len(snapshot.Substitutions)),
		Scores:        scoresDTO{TeamA: snapshot.Scores.TeamA, TeamB: snapshot.Scores.TeamB},
		CanRecord:     snapshot.CanRecord,
		CanEnd:        snapshot.CanEnd,
	}

	if snapshot.OpponentTeam != nil {
		opponent := teamToDTO(*snapshot.OpponentTeam)
		dto.OpponentTeam = &opponent
	}
	if snapshot.Rules != nil {
		agreed := rulesToDTO(*snapshot.Rules)
		dto.Rules = &agreed
	}
	for _, g := range snapshot.Goals {
		dto.Goals = append(dto.Goals, goalToDTO(g))
	}
	for _, c := range snapshot.Cards {
		dto.Cards = append(dto.Cards, cardToDTO(c))
	}
	for _, s := range snapshot.Substitutions {
		dto.Substitutions = append(dto.Substitutions, substitutionToDTO(s))
	}

	return dto
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{ID: t.ID, Name: t.Name, Short: t.Short}
}

func membersToDTO(members []team.Member) []memberDTO {
	items := make([]memberDTO, 0, len(members))
	for _, m := range members {
		items = append(items, memberDTO{
			UserID:    m.UserID,
			Name:      m.Name,
			Role:      m.Role,
			Attending: m.Attending,
		})
	}
	return items
}
