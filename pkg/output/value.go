package output

import "strings"

// ValueOrDash substitutes a dash for blank table cells, such as the
// milestone and family columns of a build without a released image.
func ValueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
