package answers

import (
	"errors"
	"net/http"
	"time"

	"bible-study-app/database"
	"bible-study-app/internal/domain/answers"
	"bible-study-app/internal/domain/studies"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// ------------------------------
// PUT /questions/:id/answer
// ------------------------------
func UpsertAnswer(c *gin.Context) {
	questionID := c.Param("id")

	var req struct {
		AnswerText string `json:"answer_text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var question studies.Question
	if err := database.DB.First(&question, "id = ?", questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load question"})
		return
	}

	var existing answers.Answer
	err := database.DB.First(&existing, "question_id = ? AND user_id = ?", question.ID, userID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save answer"})
			return
		}
		row := answers.Answer{
			QuestionID: question.ID,
			UserID:     userID,
			AnswerText: req.AnswerText,
		}
		if err := database.DB.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save answer"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "saved"})
		return
	}

	if err := database.DB.Model(&answers.Answer{}).
		Where("question_id = ? AND user_id = ?", question.ID, userID).
		Update("answer_text", req.AnswerText).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

type StudyAnswerRow struct {
	QuestionID string    `json:"question_id"`
	AnswerText string    `json:"answer_text"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ------------------------------
// GET /studies/:id/answers (current user's answers within one study)
// ------------------------------
func ListStudyAnswers(c *gin.Context) {
	studyID := c.Param("id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var rows []StudyAnswerRow
	err := database.DB.
		Table("answers").
		Select("answers.question_id, answers.answer_text, answers.updated_at").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Joins("JOIN days ON days.id = questions.day_id").
		Joins("JOIN weeks ON weeks.id = days.week_id").
		Where("weeks.study_id = ? AND answers.user_id = ?", studyID, userID).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load answers"})
		return
	}

	c.JSON(http.StatusOK, rows)
}
