package postgres

// orderClause builds the ORDER BY fragment from caller-supplied sort
// parameters. The column must be whitelisted and the direction must be a
// literal asc/desc; anything else falls back to the defaults, so no
// request-controlled string ever reaches raw SQL.
func orderClause(sortBy, sortOrder string, allowed map[string]bool, defaultColumn, defaultOrder string) string {
	if sortBy == "" || !allowed[sortBy] {
		sortBy = defaultColumn
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = defaultOrder
	}
	return sortBy + " " + sortOrder
}

var quizSortColumns = map[string]bool{
	"id":               true,
	"scheduled_date":   true,
	"duration_seconds": true,
	"created_at":       true,
}

var attemptSortColumns = map[string]bool{
	"id":                 true,
	"quiz_start_time":    true,
	"quiz_end_time":      true,
	"total_score_earned": true,
	"created_at":         true,
}
