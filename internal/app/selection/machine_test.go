package selection

import (
	"testing"

	"github.com/dalemusser/studyvault/internal/domain/models"
)

func TestMachine_ResetBranch(t *testing.T) {
	m := NewMachine(State{}, true)
	m.SetYear(2)
	m.SetSemester(3)
	m.SetBranch("cse")
	m.SetSubject("CSB201")
	m.SetMaterial(models.MaterialTypeSyllabus)

	got := m.Reset(LevelBranch)
	want := State{Year: 2, Semester: 3}
	if got != want {
		t.Errorf("Reset(branch) = %+v, want %+v", got, want)
	}
	if m.State() != want {
		t.Errorf("State() = %+v, want %+v", m.State(), want)
	}
}

func TestMachine_DispatchReturnsPrev(t *testing.T) {
	m := NewMachine(State{Year: 1}, false)
	prev, next := m.Dispatch(SetYear(4))
	if prev.Year != 1 || next.Year != 4 {
		t.Errorf("prev=%+v next=%+v", prev, next)
	}
}

func TestMachine_RestoreClampsWhenLenient(t *testing.T) {
	m := NewMachine(State{}, false)
	got := m.Restore(State{Year: 1, Subject: "X", MaterialType: models.MaterialTypePYQ})
	if got != (State{Year: 1}) {
		t.Errorf("Restore() = %+v, want year only", got)
	}
}

func TestMachine_RestorePanicsWhenStrict(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid state in strict mode")
		}
	}()
	m := NewMachine(State{}, true)
	m.Restore(State{Branch: "cse"})
}
