package notion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// trailing 32 hex digits of a page URL, e.g. https://www.notion.so/My-Page-0123abcd...
var urlIDPattern = regexp.MustCompile(`([0-9a-fA-F]{32})(?:[?#].*)?$`)

// NormalizeID converts a page or database reference into the dashed UUID
// form the API expects. It accepts dashed IDs, dashless IDs, and Notion URLs.
func NormalizeID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty Notion ID")
	}

	if id, err := uuid.Parse(ref); err == nil {
		return id.String(), nil
	}

	if m := urlIDPattern.FindStringSubmatch(ref); m != nil {
		id, err := uuid.Parse(m[1])
		if err != nil {
			return "", fmt.Errorf("invalid Notion ID in %q: %w", ref, err)
		}
		return id.String(), nil
	}

	return "", fmt.Errorf("invalid Notion ID %q", ref)
}
