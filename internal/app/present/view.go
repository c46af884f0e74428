// internal/app/present/view.go
package present

import (
	"strconv"

	"github.com/dalemusser/studyvault/internal/app/catalog"
	"github.com/dalemusser/studyvault/internal/app/selection"
	"github.com/dalemusser/studyvault/internal/domain/models"
)

// Option is one choice offered for the next level.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// View is the JSON shape of a browse page.
type View struct {
	State       selection.State       `json:"state"`
	Breadcrumbs []Crumb               `json:"breadcrumbs"`
	Next        selection.Level       `json:"next,omitempty"`
	Options     []Option              `json:"options"`
	Bucket      string                `json:"bucket,omitempty"`
	Loading     bool                  `json:"loading"`
	Files       []models.FileResource `json:"files"`
	Groups      []Group               `json:"groups,omitempty"`
	Empty       bool                  `json:"empty"`
	Message     string                `json:"message,omitempty"`
}

// BuildView assembles the view for state s. files is the merged listing of
// the active bucket (ignored until the bucket is complete); loading marks a
// resolution still in flight.
func BuildView(s selection.State, lookup *catalog.Lookup, files []models.FileResource, loading, grouped bool) View {
	v := View{
		State:       s,
		Breadcrumbs: Breadcrumbs(s, lookup),
		Next:        s.Next(),
		Options:     Options(s, lookup),
		Loading:     loading,
		Files:       []models.FileResource{},
	}

	if b, ok := s.Bucket(); ok {
		v.Bucket = b.Key()
		if files != nil {
			v.Files = files
		}
		if grouped {
			v.Groups = GroupByMaterialType(v.Files)
		}
		v.Empty = !loading && len(v.Files) == 0
	} else {
		v.Empty = len(v.Options) == 0
	}

	if v.Empty {
		v.Message = EmptyMessage(s)
	}
	return v
}

// Options lists the choices for the first unselected level.
func Options(s selection.State, lookup *catalog.Lookup) []Option {
	out := []Option{}
	if lookup == nil {
		return out
	}
	switch s.Next() {
	case selection.LevelYear:
		for _, y := range lookup.Years() {
			out = append(out, Option{Value: strconv.Itoa(y), Label: "Year " + strconv.Itoa(y)})
		}
	case selection.LevelSemester:
		for _, sem := range lookup.Semesters(s.Year) {
			out = append(out, Option{Value: strconv.Itoa(sem), Label: "Semester " + strconv.Itoa(sem)})
		}
	case selection.LevelBranch:
		for _, b := range lookup.Branches(s.Year, s.Semester) {
			out = append(out, Option{Value: b.ID, Label: b.DisplayName})
		}
	case selection.LevelSubject:
		for _, sub := range lookup.SubjectsFor(s.Year, s.Semester, s.Branch) {
			out = append(out, Option{Value: sub.Code, Label: sub.Code + " " + sub.Name})
		}
	case selection.LevelMaterial:
		for _, mt := range models.MaterialTypes {
			out = append(out, Option{Value: string(mt), Label: mt.Label()})
		}
	}
	return out
}
