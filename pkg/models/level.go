package models

import "strings"

// Level is the audience level of a session.
type Level string

// Session levels.
const (
	LevelAll      Level = "all"
	LevelAdvanced Level = "advanced"
	LevelExpert   Level = "expert"
)

// ParseLevel maps the level names used by call-for-papers tools onto a Level.
// Unknown values yield LevelAll and false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "beginner":
		return LevelAll, true
	case "advanced", "intermediate":
		return LevelAdvanced, true
	case "expert":
		return LevelExpert, true
	default:
		return LevelAll, false
	}
}
