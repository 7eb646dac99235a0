package progress

// Milestones are the completed-activity counts that raise the tier.
var Milestones = []int{1, 5, 10, 25, 50, 100}

// Tiers reached through skill scores.
const (
	TierHalfway  = 150 // mean skill score >= 50
	TierAdvanced = 175 // mean skill score >= 75
	TierMaster   = 200 // every skill at 100
)

var tierLabels = []struct {
	tier  int
	label string
}{
	{1, "First Step"},
	{5, "Getting Started"},
	{10, "Dedicated"},
	{25, "Committed"},
	{50, "Half Century"},
	{100, "Centurion"},
	{TierHalfway, "Halfway There"},
	{TierAdvanced, "Advanced Learner"},
	{TierMaster, "Master"},
}

// AchievementLabel names the highest threshold at or below tier.
// It returns "" for tier 0.
func AchievementLabel(tier int) string {
	label := ""
	for _, t := range tierLabels {
		if tier >= t.tier {
			label = t.label
		}
	}
	return label
}

// NextMilestone returns the next completed-activity milestone above
// completed, or false once the last one is passed.
func NextMilestone(completed int) (int, bool) {
	for _, m := range Milestones {
		if completed < m {
			return m, true
		}
	}
	return 0, false
}
