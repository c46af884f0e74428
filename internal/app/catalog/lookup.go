// internal/app/catalog/lookup.go
package catalog

import (
	"sort"

	"github.com/dalemusser/studyvault/internal/domain/models"
)

// Lookup answers catalog queries. It copies what it is given and hands out
// copies, so callers can never mutate the catalog. All methods return empty
// slices for undefined combinations.
type Lookup struct {
	branches  []models.Branch
	branchIdx map[string]models.Branch
	tree      map[int]map[int]map[string][]models.Subject
	subjects  map[string]models.Subject // compact code -> subject
	files     map[string]map[models.MaterialType][]models.FileResource
}

// New indexes d for lookups.
func New(d Data) *Lookup {
	l := &Lookup{
		branches:  append([]models.Branch(nil), d.Branches...),
		branchIdx: make(map[string]models.Branch, len(d.Branches)),
		tree:      make(map[int]map[int]map[string][]models.Subject),
		subjects:  make(map[string]models.Subject),
		files:     make(map[string]map[models.MaterialType][]models.FileResource),
	}
	for _, b := range d.Branches {
		l.branchIdx[b.ID] = b
	}

	for _, y := range d.Years {
		sems, ok := l.tree[y.Year]
		if !ok {
			sems = make(map[int]map[string][]models.Subject)
			l.tree[y.Year] = sems
		}
		for _, s := range y.Semesters {
			br, ok := sems[s.Semester]
			if !ok {
				br = make(map[string][]models.Subject)
				sems[s.Semester] = br
			}
			for branch, subjects := range s.Branches {
				br[branch] = append(br[branch], subjects...)
				for _, subj := range subjects {
					code := models.CompactCode(subj.Code)
					if _, seen := l.subjects[code]; !seen {
						l.subjects[code] = subj
					}
				}
			}
		}
	}

	for code, byType := range d.Files {
		key := models.CompactCode(code)
		dst, ok := l.files[key]
		if !ok {
			dst = make(map[models.MaterialType][]models.FileResource)
			l.files[key] = dst
		}
		for mt, files := range byType {
			for _, f := range files {
				f.Origin = models.OriginCatalog
				f.SubjectCode = code
				f.MaterialType = mt
				if f.DownloadURL == "" {
					f.DownloadURL = f.ViewURL
				}
				dst[mt] = append(dst[mt], f)
			}
		}
	}
	return l
}

// Years returns the academic years that have at least one semester.
func (l *Lookup) Years() []int {
	out := make([]int, 0, len(l.tree))
	for y := range l.tree {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Semesters returns the semesters defined for year.
func (l *Lookup) Semesters(year int) []int {
	sems := l.tree[year]
	out := make([]int, 0, len(sems))
	for s := range sems {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// Branches returns the branches with subjects in (year, semester), in the
// order the catalog declares them.
func (l *Lookup) Branches(year, semester int) []models.Branch {
	br := l.tree[year][semester]
	out := make([]models.Branch, 0, len(br))
	for _, b := range l.branches {
		if _, ok := br[b.ID]; ok {
			out = append(out, b)
		}
	}
	return out
}

// AllBranches returns every declared branch.
func (l *Lookup) AllBranches() []models.Branch {
	return append([]models.Branch{}, l.branches...)
}

// Branch looks up a branch by ID.
func (l *Lookup) Branch(id string) (models.Branch, bool) {
	b, ok := l.branchIdx[id]
	return b, ok
}

// SubjectsFor returns the subjects taught in (year, semester, branch).
// An undefined combination yields an empty slice; callers show a message.
func (l *Lookup) SubjectsFor(year, semester int, branch string) []models.Subject {
	return append([]models.Subject{}, l.tree[year][semester][branch]...)
}

// HasSubject reports whether code is taught in (year, semester, branch).
func (l *Lookup) HasSubject(year, semester int, branch, code string) bool {
	want := models.CompactCode(code)
	for _, s := range l.tree[year][semester][branch] {
		if models.CompactCode(s.Code) == want {
			return true
		}
	}
	return false
}

// Subject looks up a subject by code, ignoring whitespace differences.
func (l *Lookup) Subject(code string) (models.Subject, bool) {
	s, ok := l.subjects[models.CompactCode(code)]
	return s, ok
}

// FilesFor returns the catalog-declared files of a bucket, or an empty slice.
func (l *Lookup) FilesFor(subjectCode string, mt models.MaterialType) []models.FileResource {
	return append([]models.FileResource{}, l.files[models.CompactCode(subjectCode)][mt]...)
}
