package achievements

import "testing"

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		held   Set
		facts  Facts
		want   Achievement
		wantOK bool
	}{
		{"nothing earned", nil, Facts{Score: 80, CurrentStreak: 1, StoriesCompleted: 1}, "", false},
		{"perfect score", nil, Facts{Score: 100}, PerfectScore, true},
		{"perfect score held", Set{PerfectScore}, Facts{Score: 100}, "", false},
		{"week streak", nil, Facts{Score: 50, CurrentStreak: 7}, WeekStreak, true},
		{"six days is not a week", nil, Facts{CurrentStreak: 6}, "", false},
		{"story master", nil, Facts{StoriesCompleted: 3}, StoryMaster, true},
		{"order prefers perfect score", nil, Facts{Score: 100, CurrentStreak: 9, StoriesCompleted: 5}, PerfectScore, true},
		{"next in order when first held", Set{PerfectScore}, Facts{Score: 100, CurrentStreak: 9, StoriesCompleted: 5}, WeekStreak, true},
		{"all held", Set{PerfectScore, WeekStreak, StoryMaster}, Facts{Score: 100, CurrentStreak: 9, StoriesCompleted: 5}, "", false},
		{"99.9 is not perfect", nil, Facts{Score: 99.9}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Evaluate(tt.held, tt.facts)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Evaluate() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSetWith(t *testing.T) {
	s := Set{PerfectScore}
	s2 := s.With(PerfectScore)
	if len(s2) != 1 {
		t.Errorf("adding held achievement changed set: %v", s2)
	}
	s3 := s.With(StoryMaster)
	if len(s3) != 2 || !s3.Has(StoryMaster) {
		t.Errorf("With(StoryMaster) = %v", s3)
	}
	if len(s) != 1 {
		t.Error("With must not mutate the receiver")
	}
}

func TestAllTypesHaveDisplayNames(t *testing.T) {
	for _, a := range All() {
		if a.DisplayName() == string(a) {
			t.Errorf("%s has no display name", a)
		}
		if a.Icon() == "✦" {
			t.Errorf("%s has no icon", a)
		}
		if !a.Valid() {
			t.Errorf("%s should be valid", a)
		}
	}
	if Achievement("bogus").Valid() {
		t.Error("unknown achievement should not be valid")
	}
}
