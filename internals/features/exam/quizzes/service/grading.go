// file: internals/features/exam/quizzes/service/grading.go
package service

import (
	"math"
	"strings"

	model "ujianku_backend/internals/features/exam/quizzes/model"
)

// GradeAnswers menilai jawaban terhadap seluruh soal kuis.
//   - MULTIPLE_CHOICE: sama persis (case-insensitive) → poin penuh, selain itu 0
//   - ESSAY: disimpan apa adanya, is_correct = null, skor 0 (dinilai guru nanti)
//
// maxScore selalu jumlah poin SEMUA soal, termasuk yang tidak dijawab.
func GradeAnswers(questions []model.QuizQuestionModel, answers map[string]string) ([]model.GradedAnswer, float64, float64) {
	graded := make([]model.GradedAnswer, 0, len(questions))
	var total, maxScore float64

	for i := range questions {
		q := &questions[i]
		points := q.QuizQuestionPoints
		if points < 0 {
			points = 0
		}
		maxScore += points

		ans := strings.TrimSpace(answers[q.QuizQuestionID.String()])
		g := model.GradedAnswer{
			QuestionID: q.QuizQuestionID,
			Type:       q.QuizQuestionType,
			Answer:     ans,
			MaxScore:   points,
		}

		if q.IsMultipleChoice() {
			correct := ans != "" &&
				q.QuizQuestionCorrectAnswer != nil &&
				strings.EqualFold(ans, strings.TrimSpace(*q.QuizQuestionCorrectAnswer))
			g.IsCorrect = &correct
			if correct {
				g.Score = points
				total += points
			}
		}

		graded = append(graded, g)
	}
	return graded, total, maxScore
}

// Percentage dibulatkan; 0 kalau max 0.
func Percentage(total, maxScore float64) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(total / maxScore * 100))
}
