package domain

// transitions is the status transition table. Every status may currently
// move to any other status; tightening the lifecycle means editing this table.
var transitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:     ApplicationStatuses,
	StatusUnderReview: ApplicationStatuses,
	StatusApproved:    ApplicationStatuses,
	StatusRejected:    ApplicationStatuses,
}

// IsValidTransition reports whether an application may move from one status to another
func IsValidTransition(from, to ApplicationStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
