package browser

import "math/rand"

// PickIdleSession returns the id of a uniformly chosen session that has no
// client attached. Two callers may pick the same session; the loser finds
// out when Connect fails.
func PickIdleSession(sessions []ActiveSession, intn func(n int) int) (string, bool) {
	if intn == nil {
		intn = rand.Intn
	}

	idle := make([]string, 0, len(sessions))
	for _, s := range sessions {
		if s.Idle() && s.SessionID != "" {
			idle = append(idle, s.SessionID)
		}
	}
	if len(idle) == 0 {
		return "", false
	}

	return idle[intn(len(idle))], true
}
