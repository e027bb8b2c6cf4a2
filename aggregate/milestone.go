package aggregate

// Milestones are the question counts that earn a level-up notice.
var Milestones = []int64{5, 10, 20}

// IsMilestone reports whether count is one of Milestones.
func IsMilestone(count int64) bool {
	for _, m := range Milestones {
		if count == m {
			return true
		}
	}
	return false
}

// MilestoneState describes a user's level flag against their question count.
type MilestoneState struct {
	QuestionCount int64 `json:"questionCount"`
	Acknowledged  bool  `json:"acknowledged"`
	// Reached is true when the count sits on a milestone that has not been
	// acknowledged yet.
	Reached bool `json:"milestone"`
	// Stale is true when the flag is still set but the count has moved off
	// the milestone it acknowledged.
	Stale bool `json:"stale"`
}

// Milestone evaluates the level flag without changing it.
func Milestone(count int64, acknowledged bool) MilestoneState {
	on := IsMilestone(count)
	return MilestoneState{
		QuestionCount: count,
		Acknowledged:  acknowledged,
		Reached:       on && !acknowledged,
		Stale:         !on && acknowledged,
	}
}

// NextFlag is the flag value the update-level command writes: set while the
// count sits on a milestone, cleared otherwise.
func (m MilestoneState) NextFlag() bool {
	return IsMilestone(m.QuestionCount)
}
