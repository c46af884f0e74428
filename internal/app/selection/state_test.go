package selection

import (
	"math/rand"
	"testing"

	"github.com/dalemusser/studyvault/internal/domain/models"
)

func full() State {
	return State{Year: 2, Semester: 3, Branch: "cse", Subject: "CSB201", MaterialType: models.MaterialTypeSyllabus}
}

func TestReset(t *testing.T) {
	tests := []struct {
		level Level
		want  State
	}{
		{"", State{}},
		{LevelYear, State{}},
		{LevelSemester, State{Year: 2}},
		{LevelBranch, State{Year: 2, Semester: 3}},
		{LevelSubject, State{Year: 2, Semester: 3, Branch: "cse"}},
		{LevelMaterial, State{Year: 2, Semester: 3, Branch: "cse", Subject: "CSB201"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			got := Reduce(full(), Reset(tt.level))
			if got != tt.want {
				t.Errorf("Reset(%q) = %+v, want %+v", tt.level, got, tt.want)
			}
		})
	}
}

func TestCascade(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   State
	}{
		{"year clears all below", SetYear(3), State{Year: 3}},
		{"semester clears branch down", SetSemester(4), State{Year: 2, Semester: 4}},
		{"branch clears subject down", SetBranch("ece"), State{Year: 2, Semester: 3, Branch: "ece"}},
		{"subject clears material", SetSubject("CSA 103"), State{Year: 2, Semester: 3, Branch: "cse", Subject: "CSA 103"}},
		{"material is leaf", SetMaterial(models.MaterialTypePYQ), State{Year: 2, Semester: 3, Branch: "cse", Subject: "CSB201", MaterialType: models.MaterialTypePYQ}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(full(), tt.action)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReduce_SetBelowUnsetParent(t *testing.T) {
	got := Reduce(State{}, SetSemester(3))
	if got != (State{}) {
		t.Errorf("semester without year: got %+v, want empty state", got)
	}
	got = Reduce(State{Year: 1}, SetSubject("X"))
	if got != (State{Year: 1}) {
		t.Errorf("subject without branch: got %+v, want year only", got)
	}
}

func TestReduce_InvariantHoldsForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	actions := func() Action {
		switch rng.Intn(6) {
		case 0:
			return SetYear(rng.Intn(5))
		case 1:
			return SetSemester(rng.Intn(9))
		case 2:
			return SetBranch([]string{"", "cse", "ece", "me"}[rng.Intn(4)])
		case 3:
			return SetSubject([]string{"", "CSA 103", "CSB201"}[rng.Intn(3)])
		case 4:
			return SetMaterial(append([]models.MaterialType{""}, models.MaterialTypes...)[rng.Intn(6)])
		default:
			return Reset(append([]Level{""}, Levels...)[rng.Intn(6)])
		}
	}

	for run := 0; run < 200; run++ {
		s := State{}
		for step := 0; step < 50; step++ {
			a := actions()
			s = Reduce(s, a)
			if !s.Valid() {
				t.Fatalf("run %d step %d: invariant violated after %+v: %+v", run, step, a, s)
			}
		}
	}
}

func TestValidAndClamp(t *testing.T) {
	bad := State{Year: 1, Branch: "cse", Subject: "X"}
	if bad.Valid() {
		t.Fatal("expected state with branch but no semester to be invalid")
	}
	if got := bad.Clamp(); got != (State{Year: 1}) {
		t.Errorf("Clamp() = %+v, want year only", got)
	}
	if !full().Valid() {
		t.Error("expected full state to be valid")
	}
}

func TestDepthNextBucket(t *testing.T) {
	s := State{Year: 2, Semester: 3}
	if s.Depth() != LevelSemester {
		t.Errorf("Depth() = %q, want semester", s.Depth())
	}
	if s.Next() != LevelBranch {
		t.Errorf("Next() = %q, want branch", s.Next())
	}
	if _, ok := s.Bucket(); ok {
		t.Error("expected incomplete bucket")
	}

	b, ok := full().Bucket()
	if !ok {
		t.Fatal("expected complete bucket")
	}
	if b.SubjectCode != "CSB201" || b.MaterialType != models.MaterialTypeSyllabus {
		t.Errorf("Bucket() = %+v", b)
	}
	if full().Next() != "" {
		t.Errorf("Next() on full state = %q, want empty", full().Next())
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		level, value string
		want         Action
		wantErr      bool
	}{
		{"year", "2", SetYear(2), false},
		{"semester", "3", SetSemester(3), false},
		{"branch", "CSE", SetBranch("cse"), false},
		{"subject", "CSA 103", SetSubject("CSA 103"), false},
		{"materialType", "Syllabus", SetMaterial(models.MaterialTypeSyllabus), false},
		{"branch", "", Reset(LevelBranch), false},
		{"year", "abc", Action{}, true},
		{"semester", "-1", Action{}, true},
		{"material", "notes", Action{}, true},
		{"campus", "x", Action{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"="+tt.value, func(t *testing.T) {
			got, err := ParseAction(tt.level, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
