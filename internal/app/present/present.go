// Package present builds the client view of a selection and its files.
package present

import (
	"fmt"
	"strconv"

	"github.com/dalemusser/studyvault/internal/app/catalog"
	"github.com/dalemusser/studyvault/internal/app/selection"
	"github.com/dalemusser/studyvault/internal/domain/models"
)

// Crumb is one breadcrumb of the current selection. Following it dispatches
// selection.Reset(ResetLevel), which drops this level and everything below.
type Crumb struct {
	Level      selection.Level `json:"level"`
	Label      string          `json:"label"`
	Value      string          `json:"value"`
	ResetLevel selection.Level `json:"reset_level"`
}

// Group is the files of one material type.
type Group struct {
	MaterialType models.MaterialType  `json:"material_type"`
	Label        string               `json:"label"`
	Files        []models.FileResource `json:"files"`
}

// Breadcrumbs lists the selected levels in hierarchy order. Names come from
// lookup when it knows them and fall back to the raw value otherwise.
func Breadcrumbs(s selection.State, lookup *catalog.Lookup) []Crumb {
	out := []Crumb{}
	for _, lv := range selection.Levels {
		if !s.IsSet(lv) {
			break
		}
		c := Crumb{Level: lv, ResetLevel: lv}
		switch lv {
		case selection.LevelYear:
			c.Value = strconv.Itoa(s.Year)
			c.Label = "Year " + c.Value
		case selection.LevelSemester:
			c.Value = strconv.Itoa(s.Semester)
			c.Label = "Semester " + c.Value
		case selection.LevelBranch:
			c.Value = s.Branch
			c.Label = s.Branch
			if lookup != nil {
				if b, ok := lookup.Branch(s.Branch); ok && b.DisplayName != "" {
					c.Label = b.DisplayName
				}
			}
		case selection.LevelSubject:
			c.Value = s.Subject
			c.Label = s.Subject
			if lookup != nil {
				if sub, ok := lookup.Subject(s.Subject); ok && sub.Name != "" {
					c.Label = sub.Code + " " + sub.Name
				}
			}
		case selection.LevelMaterial:
			c.Value = string(s.MaterialType)
			c.Label = s.MaterialType.Label()
		}
		out = append(out, c)
	}
	return out
}

// GroupByMaterialType partitions files by material type. Groups appear in
// order of first appearance and files keep their relative order.
func GroupByMaterialType(files []models.FileResource) []Group {
	out := []Group{}
	index := make(map[models.MaterialType]int)
	for _, f := range files {
		i, ok := index[f.MaterialType]
		if !ok {
			i = len(out)
			index[f.MaterialType] = i
			out = append(out, Group{MaterialType: f.MaterialType, Label: f.MaterialType.Label()})
		}
		out[i].Files = append(out[i].Files, f)
	}
	return out
}

// DisplayName is the name shown for a file.
func DisplayName(f models.FileResource) string {
	if f.Name != "" {
		return f.Name
	}
	if f.ObjectName != "" {
		return f.ObjectName
	}
	return f.ID
}

// EmptyMessage is the text shown when the current selection has nothing
// to list.
func EmptyMessage(s selection.State) string {
	switch s.Next() {
	case selection.LevelSemester:
		return fmt.Sprintf("No semesters are listed for year %d yet.", s.Year)
	case selection.LevelBranch:
		return fmt.Sprintf("No branches are listed for semester %d yet.", s.Semester)
	case selection.LevelSubject:
		return fmt.Sprintf("No subjects are listed for %s in semester %d yet.", s.Branch, s.Semester)
	case selection.LevelMaterial:
		return "Pick a material type."
	}
	if _, ok := s.Bucket(); ok {
		return fmt.Sprintf("No %s files for %s yet.", s.MaterialType.Label(), s.Subject)
	}
	return "No years are listed yet."
}
