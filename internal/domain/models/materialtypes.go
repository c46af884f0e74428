// internal/domain/models/materialtypes.go
package models

import "strings"

// MaterialType identifies the kind of study material inside a subject.
//
// The set is closed: catalog documents, storage paths, and API input are
// all validated against MaterialTypes. The zero value means "not selected".
type MaterialType string

// Canonical material type identifiers.
//
// These values appear verbatim in storage paths
// (<root>/<subject>/<materialType>/<object>) and in the record store, so they
// must never be renamed.
const (
	MaterialTypeSyllabus    MaterialType = "syllabus"
	MaterialTypeAssignments MaterialType = "assignments"
	MaterialTypePracticals  MaterialType = "practicals"
	MaterialTypeLabwork     MaterialType = "labwork"
	MaterialTypePYQ         MaterialType = "pyq"
)

// MaterialTypes is the full set of allowed material type identifiers, in
// display order.
var MaterialTypes = []MaterialType{
	MaterialTypeSyllabus,
	MaterialTypeAssignments,
	MaterialTypePracticals,
	MaterialTypeLabwork,
	MaterialTypePYQ,
}

var materialTypeLabels = map[MaterialType]string{
	MaterialTypeSyllabus:    "Syllabus",
	MaterialTypeAssignments: "Assignments",
	MaterialTypePracticals:  "Practicals",
	MaterialTypeLabwork:     "Lab Work",
	MaterialTypePYQ:         "Previous Year Questions",
}

// ParseMaterialType accepts any casing and surrounding whitespace
// ("Syllabus", " PYQ ") and returns the canonical value.
func ParseMaterialType(s string) (MaterialType, bool) {
	mt := MaterialType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := materialTypeLabels[mt]; !ok {
		return "", false
	}
	return mt, true
}

// Valid reports whether mt is one of MaterialTypes.
func (mt MaterialType) Valid() bool {
	_, ok := materialTypeLabels[mt]
	return ok
}

// Label returns the human-facing name, or the raw value for unknown types.
func (mt MaterialType) Label() string {
	if l, ok := materialTypeLabels[mt]; ok {
		return l
	}
	return string(mt)
}

func (mt MaterialType) String() string { return string(mt) }
