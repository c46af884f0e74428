package catalog

import (
	"testing"

	"github.com/dalemusser/studyvault/internal/domain/models"
)

const fixture = `
branches:
  - { id: cse, name: Computer Science }
  - { id: ece, name: Electronics }
years:
  - year: 2
    semesters:
      - semester: 3
        branches:
          cse:
            - { code: "CSA 103", name: "Data Structures" }
            - { code: "CSB201", name: "Digital Electronics" }
          ece:
            - { code: "CSB201", name: "Digital Electronics" }
files:
  "CSA 103":
    syllabus:
      - { id: ds_syllabus, name: "Syllabus - DSA", url: "https://example.com/ds" }
`

func newFixture(t *testing.T) *Lookup {
	t.Helper()
	d, err := Parse([]byte(fixture))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	return New(d)
}

func TestSubjectsFor(t *testing.T) {
	l := newFixture(t)

	tests := []struct {
		name     string
		year     int
		semester int
		branch   string
		want     int
	}{
		{"defined", 2, 3, "cse", 2},
		{"shared subject", 2, 3, "ece", 1},
		{"unknown branch", 2, 3, "me", 0},
		{"unknown semester", 2, 4, "cse", 0},
		{"unknown year", 9, 3, "cse", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.SubjectsFor(tt.year, tt.semester, tt.branch)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFilesFor(t *testing.T) {
	l := newFixture(t)

	files := l.FilesFor("CSA 103", models.MaterialTypeSyllabus)
	if len(files) != 1 {
		t.Fatalf("len = %d, want 1", len(files))
	}
	f := files[0]
	if f.ID != "ds_syllabus" || f.Name != "Syllabus - DSA" {
		t.Errorf("got %+v", f)
	}
	if f.Origin != models.OriginCatalog {
		t.Errorf("origin = %q, want catalog", f.Origin)
	}
	if f.DownloadURL != f.ViewURL {
		t.Errorf("download url = %q, want view url fallback", f.DownloadURL)
	}
	if f.MaterialType != models.MaterialTypeSyllabus {
		t.Errorf("material type = %q", f.MaterialType)
	}

	if got := l.FilesFor("CSA103", models.MaterialTypeSyllabus); len(got) != 1 {
		t.Errorf("compact code lookup: len = %d, want 1", len(got))
	}
	if got := l.FilesFor("CSA 103", models.MaterialTypePYQ); got == nil || len(got) != 0 {
		t.Errorf("undefined bucket: got %v, want empty slice", got)
	}
}

func TestFilesFor_ReturnsCopies(t *testing.T) {
	l := newFixture(t)
	files := l.FilesFor("CSA 103", models.MaterialTypeSyllabus)
	files[0].Name = "mutated"

	again := l.FilesFor("CSA 103", models.MaterialTypeSyllabus)
	if again[0].Name != "Syllabus - DSA" {
		t.Errorf("catalog was mutated through a returned slice: %q", again[0].Name)
	}
}

func TestHierarchyQueries(t *testing.T) {
	l := newFixture(t)

	if got := l.Years(); len(got) != 1 || got[0] != 2 {
		t.Errorf("Years() = %v", got)
	}
	if got := l.Semesters(2); len(got) != 1 || got[0] != 3 {
		t.Errorf("Semesters(2) = %v", got)
	}
	br := l.Branches(2, 3)
	if len(br) != 2 || br[0].ID != "cse" || br[1].ID != "ece" {
		t.Errorf("Branches(2,3) = %v", br)
	}
	if !l.HasSubject(2, 3, "cse", "CSA103") {
		t.Error("expected HasSubject to match compact code")
	}
	if s, ok := l.Subject("CSA103"); !ok || s.Name != "Data Structures" {
		t.Errorf("Subject() = %+v, %v", s, ok)
	}
}

func TestValidate(t *testing.T) {
	d, err := Parse([]byte(`
branches: [{ id: cse, name: CS }]
years:
  - year: 1
    semesters:
      - semester: 1
        branches:
          me: [{ code: "X 1", name: X }]
          cse: [{ code: "A", name: A }, { code: "A", name: A again }]
files:
  "A":
    notes: [{ id: n1, name: N }]
    pyq: [{ id: p, name: P }, { id: p, name: P2 }]
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := d.Validate(); err == nil {
		t.Fatal("expected validation errors")
	}
}

func TestDefault(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
	l := New(d)
	if len(l.SubjectsFor(2, 3, "cse")) == 0 {
		t.Error("expected subjects for year 2 semester 3 cse")
	}
	if len(l.FilesFor("CSA 103", models.MaterialTypeSyllabus)) == 0 {
		t.Error("expected catalog syllabus for CSA 103")
	}
}
