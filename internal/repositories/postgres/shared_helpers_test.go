package postgres

import "testing"

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      string
	}{
		{"defaults on empty input", "", "", "scheduled_date asc"},
		{"allowed column passes through", "created_at", "desc", "created_at desc"},
		{"unknown column falls back", "visibility", "asc", "scheduled_date asc"},
		{"injection attempt falls back", "(SELECT pg_sleep(5))", "asc", "scheduled_date asc"},
		{"injection via order falls back", "scheduled_date", "asc; DROP TABLE quizzes", "scheduled_date asc"},
		{"uppercase direction is rejected", "scheduled_date", "DESC", "scheduled_date asc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := orderClause(tt.sortBy, tt.sortOrder, quizSortColumns, "scheduled_date", "asc")
			if got != tt.want {
				t.Errorf("orderClause(%q, %q) = %q, want %q", tt.sortBy, tt.sortOrder, got, tt.want)
			}
		})
	}

	t.Run("attempt columns use their own whitelist", func(t *testing.T) {
		if got := orderClause("scheduled_date", "asc", attemptSortColumns, "quiz_start_time", "desc"); got != "quiz_start_time asc" {
			t.Errorf("got %q, want quiz_start_time asc", got)
		}
		if got := orderClause("total_score_earned", "desc", attemptSortColumns, "quiz_start_time", "desc"); got != "total_score_earned desc" {
			t.Errorf("got %q, want total_score_earned desc", got)
		}
	})
}
