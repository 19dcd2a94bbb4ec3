package achievements

// Facts are the inputs to an evaluation, taken after the triggering
// submission has been applied.
type Facts struct {
	Score            float64
	CurrentStreak    int
	StoriesCompleted int
}

// Set is a collection of held achievements.
type Set []Achievement

// Has reports whether a is in the set.
func (s Set) Has(a Achievement) bool {
	for _, held := range s {
		if held == a {
			return true
		}
	}
	return false
}

// With returns the set with a added. Adding a held achievement is a no-op.
func (s Set) With(a Achievement) Set {
	if s.Has(a) {
		return s
	}
	out := make(Set, len(s), len(s)+1)
	copy(out, s)
	return append(out, a)
}

func satisfied(a Achievement, f Facts) bool {
	switch a {
	case PerfectScore:
		return f.Score == PerfectScoreValue
	case WeekStreak:
		return f.CurrentStreak >= WeekStreakDays
	case StoryMaster:
		return f.StoriesCompleted >= StoryMasterCompletion
	default:
		return false
	}
}

// Evaluate returns the first achievement, in All() order, that f satisfies
// and held does not already contain. At most one achievement is unlocked
// per evaluation.
func Evaluate(held Set, f Facts) (Achievement, bool) {
	for _, a := range All() {
		if held.Has(a) {
			continue
		}
		if satisfied(a, f) {
			return a, true
		}
	}
	return "", false
}
