// internal/app/selection/machine.go
package selection

import (
	"fmt"
	"sync"

	"github.com/dalemusser/studyvault/internal/domain/models"
)

// Machine holds a State and applies actions to it. It is safe for
// concurrent use.
//
// Transitions always go through Reduce, which keeps the hierarchy invariant.
// States handed in from outside (NewMachine, Restore) are checked: in strict
// mode an invalid one panics, otherwise it is clamped to the nearest valid
// state.
type Machine struct {
	mu     sync.Mutex
	state  State
	strict bool
}

// NewMachine returns a Machine starting from initial (clamped if needed).
func NewMachine(initial State, strict bool) *Machine {
	m := &Machine{strict: strict}
	m.state = m.check(initial)
	return m
}

// State returns a snapshot of the current selection.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Restore replaces the current selection, e.g. with one loaded from
// persistence.
func (m *Machine) Restore(s State) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = m.check(s)
	return m.state
}

// Dispatch applies a and returns the previous and resulting states.
func (m *Machine) Dispatch(a Action) (prev, next State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev = m.state
	m.state = m.check(Reduce(m.state, a))
	return prev, m.state
}

func (m *Machine) SetYear(y int) State                      { _, s := m.Dispatch(SetYear(y)); return s }
func (m *Machine) SetSemester(sem int) State                { _, s := m.Dispatch(SetSemester(sem)); return s }
func (m *Machine) SetBranch(b string) State                 { _, s := m.Dispatch(SetBranch(b)); return s }
func (m *Machine) SetSubject(code string) State             { _, s := m.Dispatch(SetSubject(code)); return s }
func (m *Machine) SetMaterial(mt models.MaterialType) State { _, s := m.Dispatch(SetMaterial(mt)); return s }
func (m *Machine) Reset(l Level) State                      { _, s := m.Dispatch(Reset(l)); return s }

func (m *Machine) check(s State) State {
	if s.Valid() {
		return s
	}
	if m.strict {
		panic(fmt.Sprintf("selection: invariant violated: %+v", s))
	}
	return s.Clamp()
}
