package services

import (
	"log/slog"

	"github.com/quizarena/exam-service/internal/models"
)

type gradingService struct {
	logger *slog.Logger
}

func NewGradingService(logger *slog.Logger) GradingService {
	return &gradingService{logger: logger}
}

// GradeResponses compares each stored response against the current
// question row. A response whose question no longer resolves counts
// neither as attempted nor as wrong: with the question gone there is
// nothing to grade it against.
func (s *gradingService) GradeResponses(responses []*models.QuestionAttempt, questions map[uint]*models.Question) GradeTotals {
	var totals GradeTotals

	for _, response := range responses {
		if response.QuestionID == nil {
			continue
		}
		question, ok := questions[*response.QuestionID]
		if !ok {
			s.logger.Debug("Skipping response for missing question",
				"question_id", *response.QuestionID,
				"attempt_id", response.QuizAttemptID)
			continue
		}

		totals.Attempted++
		if response.SelectedOption == question.CorrectOption {
			totals.Correct++
			totals.ScoreEarned += question.ScoreValue
		} else {
			totals.Wrong++
		}
	}

	return totals
}

func (s *gradingService) Classify(scoreEarned, totalScore int) PerformanceSummary {
	percentage := 0.0
	if totalScore > 0 {
		percentage = float64(scoreEarned) / float64(totalScore) * 100
	}
	return PerformanceSummary{
		Percentage: percentage,
		Grade:      letterGrade(percentage),
	}
}

func letterGrade(percentage float64) string {
	if percentage >= 97 {
		return "A+"
	} else if percentage >= 93 {
		return "A"
	} else if percentage >= 90 {
		return "A-"
	} else if percentage >= 87 {
		return "B+"
	} else if percentage >= 83 {
		return "B"
	} else if percentage >= 80 {
		return "B-"
	} else if percentage >= 77 {
		return "C+"
	} else if percentage >= 73 {
		return "C"
	} else if percentage >= 70 {
		return "C-"
	} else if percentage >= 67 {
		return "D+"
	} else if percentage >= 63 {
		return "D"
	} else if percentage >= 60 {
		return "D-"
	}
	return "F"
}
