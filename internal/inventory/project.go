package inventory

import "strings"

// ExtractProject reduces a free-text reservation note to a project name. The
// first known project contained in the uppercased note wins; otherwise the
// whole uppercased note is the project. Blank notes yield no project.
func ExtractProject(note string, known []string) (string, bool) {
	text := strings.ToUpper(strings.TrimSpace(note))
	if text == "" {
		return "", false
	}
	for _, project := range known {
		if project != "" && strings.Contains(text, project) {
			return project, true
		}
	}
	return text, true
}
