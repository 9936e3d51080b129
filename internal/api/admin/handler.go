package admin

import (
	"net/http"
	"strconv"
	"time"

	"bible-study-app/database"
	"bible-study-app/internal/domain/answers"
	"bible-study-app/internal/domain/audit"
	"bible-study-app/internal/domain/billing"
	"bible-study-app/internal/domain/studies"
	"bible-study-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	AuthProvider string `json:"auth_provider"`
	Purchases    int    `json:"purchases"`
}

type AdminStats struct {
	TotalUsers       int     `json:"total_users"`
	TotalStudies     int     `json:"total_studies"`
	PublishedStudies int     `json:"published_studies"`
	TotalAnswers     int     `json:"total_answers"`
	TotalRevenue     float64 `json:"total_revenue"`
	RecentRevenue    float64 `json:"recent_revenue"`
}

func AdminDashboard(c *gin.Context) {
	var stats AdminStats

	var totalUsers, totalStudies, publishedStudies, totalAnswers int64
	var totalRevenue, recentRevenue float64

	database.DB.Model(&users.User{}).Count(&totalUsers)
	database.DB.Model(&studies.Study{}).Count(&totalStudies)
	database.DB.Model(&studies.Study{}).Where("is_published = ?", true).Count(&publishedStudies)
	database.DB.Model(&answers.Answer{}).Count(&totalAnswers)

	database.DB.Model(&billing.Purchase{}).
		Where("status = ?", "paid").
		Select("COALESCE(SUM(amount_usd), 0)").Scan(&totalRevenue)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&billing.Purchase{}).
		Where("status = ? AND created_at >= ?", "paid", thirtyDaysAgo).
		Select("COALESCE(SUM(amount_usd), 0)").Scan(&recentRevenue)

	stats.TotalUsers = int(totalUsers)
	stats.TotalStudies = int(totalStudies)
	stats.PublishedStudies = int(publishedStudies)
	stats.TotalAnswers = int(totalAnswers)
	stats.TotalRevenue = totalRevenue
	stats.RecentRevenue = recentRevenue

	c.JSON(http.StatusOK, stats)
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	err := database.DB.Find(&all).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	type purchaseCount struct {
		UserID uint
		Count  int
	}
	var counts []purchaseCount
	database.DB.
		Table("purchases").
		Select("user_id, COUNT(id) as count").
		Where("status = ?", "paid").
		Group("user_id").
		Scan(&counts)

	countByUser := map[uint]int{}
	for _, pc := range counts {
		countByUser[pc.UserID] = pc.Count
	}

	var adminUsers []AdminUser
	for _, u := range all {
		adminUsers = append(adminUsers, AdminUser{
			ID:           u.ID,
			Name:         u.Name,
			Lastname:     u.Lastname,
			Email:        u.Email,
			Role:         u.Role,
			AuthProvider: u.AuthProvider,
			Purchases:    countByUser[u.ID],
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}

// GET /admin/audit?limit=100
func ListAuditLog(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 100
	}

	var records []audit.AuditLog
	if err := database.DB.
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load audit log"})
		return
	}

	c.JSON(http.StatusOK, records)
}
