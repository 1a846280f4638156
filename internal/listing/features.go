package listing

import "github.com/propmarket/backend/internal/models"

// DeriveFeatures returns the display phrases for ext, de-duplicated with the
// first occurrence kept. It returns an empty list when ext is missing or
// belongs to another purpose.
func DeriveFeatures(purpose models.PropertyPurpose, ext models.Extension) []string {
	out := []string{}
	if ext == nil || ext.Purpose() != purpose {
		return out
	}

	seen := make(map[string]struct{})
	for _, phrase := range ext.Describe() {
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}
		out = append(out, phrase)
	}
	return out
}
