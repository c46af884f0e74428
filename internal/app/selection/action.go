// internal/app/selection/action.go
package selection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dalemusser/studyvault/internal/domain/models"
)

// Kind enumerates the transitions a State accepts.
type Kind string

const (
	KindSetYear     Kind = "set_year"
	KindSetSemester Kind = "set_semester"
	KindSetBranch   Kind = "set_branch"
	KindSetSubject  Kind = "set_subject"
	KindSetMaterial Kind = "set_material"
	KindReset       Kind = "reset"
)

// Action is one selection event. Only the field matching Kind is read.
type Action struct {
	Kind     Kind
	Int      int
	Str      string
	Material models.MaterialType
	Level    Level
}

// Constructors for the common actions.
func SetYear(y int) Action                      { return Action{Kind: KindSetYear, Int: y} }
func SetSemester(s int) Action                  { return Action{Kind: KindSetSemester, Int: s} }
func SetBranch(b string) Action                 { return Action{Kind: KindSetBranch, Str: b} }
func SetSubject(code string) Action             { return Action{Kind: KindSetSubject, Str: code} }
func SetMaterial(mt models.MaterialType) Action { return Action{Kind: KindSetMaterial, Material: mt} }
func Reset(l Level) Action                      { return Action{Kind: KindReset, Level: l} }

// Reduce applies a to s and returns the new state. It is total: unknown kinds
// return s unchanged. Setting a level whose parent is unset (a semester
// before any year) leaves that level unset.
func Reduce(s State, a Action) State {
	switch a.Kind {
	case KindSetYear:
		s = s.SetYear(a.Int)
	case KindSetSemester:
		s = s.SetSemester(a.Int)
	case KindSetBranch:
		s = s.SetBranch(a.Str)
	case KindSetSubject:
		s = s.SetSubject(a.Str)
	case KindSetMaterial:
		s = s.SetMaterial(a.Material)
	case KindReset:
		s = s.Reset(a.Level)
	}
	return s.Clamp()
}

// ParseAction builds the "set" action for a level from its textual value, as
// received from an HTTP body or a command line.
func ParseAction(level, value string) (Action, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return Action{}, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return Reset(l), nil
	}

	switch l {
	case LevelYear, LevelSemester:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return Action{}, fmt.Errorf("%s must be a positive number, got %q", l, value)
		}
		if l == LevelYear {
			return SetYear(n), nil
		}
		return SetSemester(n), nil
	case LevelBranch:
		return SetBranch(strings.ToLower(value)), nil
	case LevelSubject:
		return SetSubject(value), nil
	default:
		mt, ok := models.ParseMaterialType(value)
		if !ok {
			return Action{}, fmt.Errorf("unknown material type %q", value)
		}
		return SetMaterial(mt), nil
	}
}
