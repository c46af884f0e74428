// Package selection holds the cascading curriculum selection.
//
// A State narrows year > semester > branch > subject > material type. Every
// transition sets one level and clears everything below it, so a level is
// never set while a level above it is unset.
package selection

import (
	"fmt"
	"strings"

	"github.com/dalemusser/studyvault/internal/domain/models"
)

// Level names one tier of the hierarchy.
type Level string

const (
	LevelYear     Level = "year"
	LevelSemester Level = "semester"
	LevelBranch   Level = "branch"
	LevelSubject  Level = "subject"
	LevelMaterial Level = "material"
)

// Levels lists the hierarchy top-down.
var Levels = []Level{LevelYear, LevelSemester, LevelBranch, LevelSubject, LevelMaterial}

// ParseLevel accepts the level names above; "materialType" and "type" are
// accepted as aliases for LevelMaterial. Empty input parses as LevelYear.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "year":
		return LevelYear, nil
	case "semester":
		return LevelSemester, nil
	case "branch":
		return LevelBranch, nil
	case "subject":
		return LevelSubject, nil
	case "material", "materialtype", "material_type", "type":
		return LevelMaterial, nil
	}
	return "", fmt.Errorf("unknown selection level %q", s)
}

func (l Level) index() int {
	for i, lv := range Levels {
		if lv == l {
			return i
		}
	}
	return -1
}

// State is the current selection. The zero value of a field means the level
// is not selected.
type State struct {
	Year         int                 `json:"year,omitempty"`
	Semester     int                 `json:"semester,omitempty"`
	Branch       string              `json:"branch,omitempty"`
	Subject      string              `json:"subject,omitempty"`
	MaterialType models.MaterialType `json:"material_type,omitempty"`
}

// isSet reports whether the given level holds a value.
func (s State) isSet(l Level) bool {
	switch l {
	case LevelYear:
		return s.Year != 0
	case LevelSemester:
		return s.Semester != 0
	case LevelBranch:
		return s.Branch != ""
	case LevelSubject:
		return s.Subject != ""
	case LevelMaterial:
		return s.MaterialType != ""
	}
	return false
}

// IsSet reports whether level l is selected.
func (s State) IsSet(l Level) bool { return s.isSet(l) }

// Valid reports whether no level is set below an unset level.
func (s State) Valid() bool {
	for i := 1; i < len(Levels); i++ {
		if !s.isSet(Levels[i-1]) && s.isSet(Levels[i]) {
			return false
		}
	}
	return true
}

// Clamp returns the nearest valid state: everything from the first unset
// level downward is cleared.
func (s State) Clamp() State {
	for _, l := range Levels {
		if !s.isSet(l) {
			return s.clearFrom(l)
		}
	}
	return s
}

// clearFrom clears level l and every level below it.
func (s State) clearFrom(l Level) State {
	switch l {
	case LevelYear:
		s.Year = 0
		fallthrough
	case LevelSemester:
		s.Semester = 0
		fallthrough
	case LevelBranch:
		s.Branch = ""
		fallthrough
	case LevelSubject:
		s.Subject = ""
		fallthrough
	case LevelMaterial:
		s.MaterialType = ""
	}
	return s
}

// Depth returns the deepest selected level, or "" when nothing is selected.
func (s State) Depth() Level {
	var deepest Level
	for _, l := range Levels {
		if !s.isSet(l) {
			break
		}
		deepest = l
	}
	return deepest
}

// Next returns the first unselected level, or "" when the state is complete.
func (s State) Next() Level {
	for _, l := range Levels {
		if !s.isSet(l) {
			return l
		}
	}
	return ""
}

// Bucket returns the (subject, material type) pair and whether both are
// selected.
func (s State) Bucket() (models.Bucket, bool) {
	b := models.Bucket{SubjectCode: s.Subject, MaterialType: s.MaterialType}
	return b, s.Valid() && b.Complete()
}

// SetYear sets the year and clears every level below it.
func (s State) SetYear(y int) State {
	s = s.clearFrom(LevelYear)
	s.Year = y
	return s
}

// SetSemester sets the semester and clears branch, subject and material.
// The year is expected to be set already; the range is not checked here.
func (s State) SetSemester(sem int) State {
	s = s.clearFrom(LevelSemester)
	s.Semester = sem
	return s
}

// SetBranch sets the branch and clears subject and material.
func (s State) SetBranch(b string) State {
	s = s.clearFrom(LevelBranch)
	s.Branch = b
	return s
}

// SetSubject sets the subject and clears the material type.
func (s State) SetSubject(code string) State {
	s = s.clearFrom(LevelSubject)
	s.Subject = code
	return s
}

// SetMaterial sets the material type. It is the leaf level.
func (s State) SetMaterial(mt models.MaterialType) State {
	s.MaterialType = mt
	return s
}

// Reset clears the named level and everything below it, preserving the
// levels above. An empty level or LevelYear clears everything.
func (s State) Reset(l Level) State {
	if l == "" || l.index() < 0 {
		l = LevelYear
	}
	return s.clearFrom(l)
}
