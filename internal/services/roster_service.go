package services

import "strings"

// RosterService holds the fixed, ordered list of official athletes
type RosterService struct {
	names []string
}

func NewRosterService(names []string) *RosterService {
	return &RosterService{names: append([]string(nil), names...)}
}

// Names returns a copy of the roster in its configured order
func (s *RosterService) Names() []string {
	return append([]string(nil), s.names...)
}

func (s *RosterService) Size() int {
	return len(s.names)
}

// MatchBypass resolves the name typed before the admin code. The first roster
// entry containing the prefix (case-insensitive) wins; with no match the
// prefix itself is used.
func (s *RosterService) MatchBypass(prefix string) string {
	needle := strings.ToLower(prefix)
	for _, name := range s.names {
		if strings.Contains(strings.ToLower(name), needle) {
			return name
		}
	}
	return prefix
}
