package memory

import (
	"time"

	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/domain/team"
	"github.com/pitchside/matchday/internal/domain/user"
)

const (
	TeamIDGarudaFC   = "idn-garuda-fc"
	TeamIDRajawaliSC = "idn-rajawali-sc"
)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDGarudaFC, Name: "Garuda FC", Short: "GRD"},
		{ID: TeamIDRajawaliSC, Name: "Rajawali SC", Short: "RJW"},
	}
}

func SeedMembers() []team.Member {
	return []team.Member{
		{UserID: "usr-garuda-admin", TeamID: TeamIDGarudaFC, Name: "Bima Prakoso", Role: user.RoleAdmin, Attending: true},
		{UserID: "usr-garuda-01", TeamID: TeamIDGarudaFC, Name: "Raka Saputra", Role: user.RoleMember, Attending: true},
		{UserID: "usr-garuda-02", TeamID: TeamIDGarudaFC, Name: "Dimas Nugraha", Role: user.RoleMember, Attending: true},
		{UserID: "usr-garuda-03", TeamID: TeamIDGarudaFC, Name: "Yoga Pratama", Role: user.RoleMember, Attending: true},
		{UserID: "usr-garuda-04", TeamID: TeamIDGarudaFC, Name: "Fajar Ramadhan", Role: user.RoleMember, Attending: true},
		{UserID: "usr-garuda-05", TeamID: TeamIDGarudaFC, Name: "Andika Wijaya", Role: user.RoleMember, Attending: false},
		{UserID: "usr-rajawali-admin", TeamID: TeamIDRajawaliSC, Name: "Satria Mahendra", Role: user.RoleAdmin, Attending: true},
		{UserID: "usr-rajawali-01", TeamID: TeamIDRajawaliSC, Name: "Galih Permana", Role: user.RoleMember, Attending: true},
		{UserID: "usr-rajawali-02", TeamID: TeamIDRajawaliSC, Name: "Rizky Hidayat", Role: user.RoleMember, Attending: true},
		{UserID: "usr-rajawali-03", TeamID: TeamIDRajawaliSC, Name: "Bayu Kurniawan", Role: user.RoleMember, Attending: true},
		{UserID: "usr-rajawali-04", TeamID: TeamIDRajawaliSC, Name: "Eko Santoso", Role: user.RoleMember, Attending: true},
		{UserID: "usr-rajawali-05", TeamID: TeamIDRajawaliSC, Name: "Arif Budiman", Role: user.RoleMember, Attending: false},
	}
}

func SeedMatches(now time.Time) []match.Record {
	scheduled := now.UTC().Add(72 * time.Hour)
	return []match.Record{
		{
			ID:             "match-garuda-draft",
			TeamID:         TeamIDGarudaFC,
			Host:           true,
			ScheduledAt:    scheduled,
			Status:         match.StatusDraft,
			MinimumPlayers: 5,
			CreatedAt:      now.UTC(),
			UpdatedAt:      now.UTC(),
		},
	}
}
