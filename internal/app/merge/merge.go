// Package merge combines file listings for one bucket.
package merge

import "github.com/dalemusser/studyvault/internal/domain/models"

// MergeFiles combines the catalog-declared files with the storage-resolved
// files of the same bucket. Entries are keyed by ID: catalog files are
// inserted first, then storage files, and a storage file replaces a catalog
// file with the same ID in place. Output order is the order in which each ID
// was first inserted.
func MergeFiles(catalogFiles, storageFiles []models.FileResource) []models.FileResource {
	return Merge(catalogFiles, storageFiles)
}

// Merge is MergeFiles over any number of lists; later lists win ties.
// The result is never nil.
func Merge(lists ...[]models.FileResource) []models.FileResource {
	n := 0
	for _, l := range lists {
		n += len(l)
	}

	out := make([]models.FileResource, 0, n)
	pos := make(map[string]int, n)
	for _, l := range lists {
		for _, f := range l {
			if i, ok := pos[f.ID]; ok {
				out[i] = f
				continue
			}
			pos[f.ID] = len(out)
			out = append(out, f)
		}
	}
	return out
}
