package repository

import "strings"

// likeEscape is passed as ESCAPE '!' so the same clause works on MySQL and SQLite
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// containsPattern builds a %keyword% LIKE argument with wildcards escaped
func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}
