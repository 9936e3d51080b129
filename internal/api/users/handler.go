package users

import (
	"net/http"

	"bible-study-app/database"
	"bible-study-app/internal/domain/billing"
	"bible-study-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type MeResponse struct {
	ID               uint     `json:"id"`
	Name             string   `json:"name"`
	Lastname         string   `json:"lastname,omitempty"`
	Email            string   `json:"email"`
	Role             string   `json:"role"`
	AuthProvider     string   `json:"auth_provider"`
	PurchasedStudies []string `json:"purchased_studies"`
}

func GetCurrentUser(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var purchases []billing.Purchase
	if err := database.DB.
		Where("user_id = ? AND status = ?", user.ID, "paid").
		Find(&purchases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchases"})
		return
	}

	purchased := make([]string, 0, len(purchases))
	for _, p := range purchases {
		purchased = append(purchased, p.StudyID)
	}

	c.JSON(http.StatusOK, MeResponse{
		ID:               user.ID,
		Name:             user.Name,
		Lastname:         user.Lastname,
		Email:            user.Email,
		Role:             user.Role,
		AuthProvider:     user.AuthProvider,
		PurchasedStudies: purchased,
	})
}
