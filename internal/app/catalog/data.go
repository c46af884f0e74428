// Package catalog provides read-only access to the static curriculum:
// which subjects are taught in a (year, semester, branch) bucket and which
// files are declared for each (subject, material type) bucket.
//
// Catalog data is injected (see New, Parse, Load) rather than held in a
// package-level variable so tests can substitute fixtures.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/dalemusser/studyvault/internal/domain/models"
	"gopkg.in/yaml.v3"
)

// Data is the catalog document as authored.
type Data struct {
	Branches []models.Branch                                         `yaml:"branches"`
	Years    []YearData                                              `yaml:"years"`
	Files    map[string]map[models.MaterialType][]models.FileResource `yaml:"files"`
}

// YearData lists the semesters of one academic year.
type YearData struct {
	Year      int            `yaml:"year"`
	Semesters []SemesterData `yaml:"semesters"`
}

// SemesterData maps branch IDs to the subjects taught in that semester.
type SemesterData struct {
	Semester int                         `yaml:"semester"`
	Branches map[string][]models.Subject `yaml:"branches"`
}

//go:embed default.yaml
var defaultDocument []byte

// Default returns the catalog shipped with the binary.
func Default() (Data, error) {
	return Parse(defaultDocument)
}

// Parse decodes a YAML catalog document.
func Parse(doc []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(doc, &d); err != nil {
		return Data{}, fmt.Errorf("parse catalog: %w", err)
	}
	return d, nil
}

// Load reads and parses a catalog document from path. An empty path yields
// the default catalog.
func Load(path string) (Data, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(b)
}

// Validate reports authoring mistakes: undeclared branches, blank subject
// codes, unknown material types and duplicate file IDs inside one bucket.
func (d Data) Validate() error {
	var errs []error

	declared := make(map[string]bool, len(d.Branches))
	for _, b := range d.Branches {
		if b.ID == "" {
			errs = append(errs, errors.New("branch with empty id"))
			continue
		}
		declared[b.ID] = true
	}

	for _, y := range d.Years {
		for _, s := range y.Semesters {
			for branch, subjects := range s.Branches {
				if !declared[branch] {
					errs = append(errs, fmt.Errorf("year %d semester %d: undeclared branch %q", y.Year, s.Semester, branch))
				}
				seen := make(map[string]bool, len(subjects))
				for _, subj := range subjects {
					code := models.CompactCode(subj.Code)
					if code == "" {
						errs = append(errs, fmt.Errorf("year %d semester %d branch %s: subject with empty code", y.Year, s.Semester, branch))
						continue
					}
					if seen[code] {
						errs = append(errs, fmt.Errorf("year %d semester %d branch %s: duplicate subject %q", y.Year, s.Semester, branch, subj.Code))
					}
					seen[code] = true
				}
			}
		}
	}

	for code, byType := range d.Files {
		for mt, files := range byType {
			if !mt.Valid() {
				errs = append(errs, fmt.Errorf("subject %s: unknown material type %q", code, mt))
			}
			ids := make(map[string]bool, len(files))
			for _, f := range files {
				if f.ID == "" {
					errs = append(errs, fmt.Errorf("subject %s %s: file %q has no id", code, mt, f.Name))
					continue
				}
				if ids[f.ID] {
					errs = append(errs, fmt.Errorf("subject %s %s: duplicate file id %q", code, mt, f.ID))
				}
				ids[f.ID] = true
			}
		}
	}

	return errors.Join(errs...)
}
