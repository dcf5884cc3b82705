package classify

import (
	"path/filepath"
	"strings"
)

const (
	LeadRole    = "lead"
	BackingRole = "backing"
)

// Ordered substring heuristics for mapping a karaoke model's output names
// onto roles. First match wins, and a file already claimed by one role is
// never reassigned to the other.
var leadHints = []string{
	"lead", "main", "solo", "(vocals)", "_vocal", "vocal_",
}

var backingHints = []string{
	"backing", "accompaniment", "harmony", "bg",
	"(instrumental)", "(other)", "instrumental", "no_vocal",
}

// LeadBacking classifies produced files into lead/backing roles.
//
// When the heuristics populate fewer than two roles and at least two files
// exist, assignment falls back to position: first file is lead, second is
// backing. That encodes an output-ordering assumption no engine actually
// guarantees, but two-output karaoke models have held to it in practice.
func LeadBacking(files []string) map[string]string {
	assigned := map[string]string{}
	claimed := map[string]bool{}

	for _, file := range files {
		base := strings.ToLower(filepath.Base(file))

		switch {
		case assigned[LeadRole] == "" && !claimed[file] && matchesAny(base, leadHints):
			assigned[LeadRole] = file
			claimed[file] = true
		case assigned[BackingRole] == "" && !claimed[file] && matchesAny(base, backingHints):
			assigned[BackingRole] = file
			claimed[file] = true
		}

		if assigned[LeadRole] != "" && assigned[BackingRole] != "" {
			break
		}
	}

	distinctRoles := 0
	if assigned[LeadRole] != "" {
		distinctRoles++
	}
	if assigned[BackingRole] != "" && assigned[BackingRole] != assigned[LeadRole] {
		distinctRoles++
	}

	if distinctRoles < 2 && len(files) >= 2 {
		assigned[LeadRole] = files[0]
		assigned[BackingRole] = files[1]
	}

	result := map[string]string{}
	for role, file := range assigned {
		if file != "" {
			result[role] = file
		}
	}

	return result
}

func matchesAny(base string, hints []string) bool {
	for _, hint := range hints {
		if strings.Contains(base, hint) {
			return true
		}
	}

	return false
}
