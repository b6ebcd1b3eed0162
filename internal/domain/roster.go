package domain

import (
	"sort"
	"strings"
	"time"
)

// RosterExportHeader is the fixed column order of roster exports.
var RosterExportHeader = []string{"ID", "Name", "NIM", "Email", "Phone", "Jurusan", "Angkatan", "Status", "Registered At"}

// FilterRoster returns the participants matching status (empty means any) and
// search, a case-insensitive substring of name, nim or email. The result is a
// new slice ordered by CreatedAt ascending, ties broken by ID.
func FilterRoster(roster []*Participant, status ParticipantStatus, search string) []*Participant {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]*Participant, 0, len(roster))
	for _, p := range roster {
		if status != "" && p.Status != status {
			continue
		}
		if needle != "" && !matchesSearch(p, needle) {
			continue
		}
		out = append(out, p)
	}
	SortRoster(out)
	return out
}

func matchesSearch(p *Participant, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.NIM), needle) ||
		strings.Contains(strings.ToLower(p.Email), needle)
}

// SortRoster orders participants in registration order.
func SortRoster(ps []*Participant) {
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.Before(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
}

// RosterRecord projects p onto RosterExportHeader.
func RosterRecord(p *Participant) []string {
	return []string{
		p.ID,
		p.Name,
		p.NIM,
		p.Email,
		p.Phone,
		deref(p.Jurusan),
		deref(p.Angkatan),
		string(p.Status),
		p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
