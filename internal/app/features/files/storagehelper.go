// internal/app/features/files/storagehelper.go
package files

import (
	"mime"
	"path"
	"strings"
)

// SanitizeFilename keeps only the base name of an uploaded file and
// replaces anything outside [A-Za-z0-9._-] with '_'. Leading dots are
// dropped so an upload can never become a hidden placeholder object.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = path.Base(strings.TrimSpace(filename))
	if filename == "." || filename == "/" {
		filename = ""
	}

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	name := strings.TrimLeft(string(result), ".")
	if name == "" {
		return "file"
	}
	if len(name) > 100 {
		// Truncate but preserve extension if present
		ext := path.Ext(name)
		if len(ext) > 0 && len(ext) < 10 {
			name = name[:100-len(ext)] + ext
		} else {
			name = name[:100]
		}
	}
	return name
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '.' || c == '-' || c == '_'
}

// ContentTypeFor prefers the type the client declared and falls back to
// the file extension.
func ContentTypeFor(declared, name string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
