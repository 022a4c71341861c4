package domain

import "time"

// Viewer is the caller a request is evaluated for.
type Viewer struct {
	UID  string `json:"uid,omitempty"`
	Role Role   `json:"role"`
}

// Guest is the anonymous viewer.
func Guest() Viewer {
	return Viewer{Role: RoleGuest}
}

// Owns reports whether the viewer is the recorded owner of p.
func (v Viewer) Owns(p Project) bool {
	return v.UID != "" && v.UID == p.OwnerID
}

// ModeFor downgrades a requested review mode for viewers that are not evaluators.
func (v Viewer) ModeFor(requested ViewMode) ViewMode {
	if requested == ModeReview && !v.Role.IsEvaluator() {
		return ModeNormal
	}
	return requested
}

// PhaseStatusChange describes a persisted change of a phase status record.
type PhaseStatusChange struct {
	ProjectID    string    `json:"project_id"`
	ProjectTitle string    `json:"project_title"`
	OwnerID      string    `json:"owner_id"`
	Phase        Phase     `json:"phase"`
	PhaseKey     string    `json:"phase_key"`
	Status       string    `json:"status"`
	ChangedBy    string    `json:"changed_by"`
	ChangedAt    time.Time `json:"changed_at"`
}
