package studies

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bible-study-app/database"
	"bible-study-app/internal/domain/answers"
	"bible-study-app/internal/domain/audit"
	"bible-study-app/internal/domain/billing"
	domstudies "bible-study-app/internal/domain/studies"
	"bible-study-app/internal/domain/users"
	"bible-study-app/internal/ingest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuth stands in for the JWT middleware and injects the given identity.
func fakeAuth(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func setupTest(t *testing.T) (*gin.Engine, *ingest.Service, *gorm.DB) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&users.User{},
		&domstudies.Study{},
		&domstudies.Week{},
		&domstudies.Day{},
		&domstudies.Question{},
		&answers.Answer{},
		&audit.AuditLog{},
		&billing.Purchase{},
	))
	database.DB = db

	svc := ingest.NewService(db)
	h := NewHandler(svc)

	r := gin.New()
	r.GET("/studies", h.ListStudies)

	member := r.Group("/", fakeAuth(2, "member"))
	member.GET("/studies/:id", h.GetStudy)

	admin := r.Group("/admin", fakeAuth(1, "admin"))
	admin.GET("/studies", h.AdminListStudies)
	admin.POST("/studies", h.CreateStudy)
	admin.PUT("/studies/:id", h.UpdateStudy)
	admin.DELETE("/studies/:id", h.DeleteStudy)

	return r, svc, db
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func minimalStudyBody(title string) gin.H {
	return gin.H{
		"title":        title,
		"author":       "Pastor Kim",
		"is_published": true,
		"weeks": []gin.H{
			{
				"week_number": 1,
				"title":       "The Gospel Revealed",
				"days": []gin.H{
					{
						"day_number": 1,
						"title":      "Not Ashamed",
						"scripture":  "Romans 1:1-17",
						"questions": []gin.H{
							{"question_text": "What stands out?", "question_type": "observation", "order": 1},
						},
					},
				},
			},
		},
	}
}

func createViaAPI(t *testing.T, r *gin.Engine, title string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/admin/studies", minimalStudyBody(title))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Study domstudies.Study `json:"study"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Study.ID)
	return resp.Study.ID
}

func TestCreateStudyEndpoint(t *testing.T) {
	r, _, db := setupTest(t)

	w := doJSON(r, http.MethodPost, "/admin/studies", minimalStudyBody("Romans"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Study domstudies.Study `json:"study"`
		Stats ingest.StudyStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Romans", resp.Study.Title)
	assert.Equal(t, ingest.StudyStats{TotalWeeks: 1, TotalDays: 1, TotalQuestions: 1}, resp.Stats)

	var logs []audit.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, uint(1), logs[0].ActorID)
}

func TestCreateStudyValidationFailure(t *testing.T) {
	r, _, _ := setupTest(t)

	body := minimalStudyBody("Broken")
	body["weeks"].([]gin.H)[0]["title"] = ""

	w := doJSON(r, http.MethodPost, "/admin/studies", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Study failed validation", resp.Error)
	assert.Contains(t, resp.Details, "weeks[0]: title is required")
}

func TestCreateStudyDuplicateTitle(t *testing.T) {
	r, _, _ := setupTest(t)

	createViaAPI(t, r, "Twice")
	w := doJSON(r, http.MethodPost, "/admin/studies", minimalStudyBody("Twice"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateStudyEndpoint(t *testing.T) {
	r, svc, _ := setupTest(t)
	id := createViaAPI(t, r, "Editable")

	st, err := svc.Load(context.Background(), id)
	require.NoError(t, err)
	week := st.Weeks[0]
	day := week.Days[0]
	question := day.Questions[0]

	body := gin.H{
		"title":        "Editable, Second Edition",
		"author":       st.Author,
		"is_published": true,
		"weeks": []gin.H{
			{
				"id":          week.ID,
				"week_number": week.WeekNumber,
				"title":       week.Title,
				"days": []gin.H{
					{
						"id":         day.ID,
						"day_number": day.DayNumber,
						"title":      day.Title,
						"questions": []gin.H{
							{"id": question.ID, "question_text": question.QuestionText, "question_type": question.QuestionType, "order": question.Order},
						},
					},
					{
						"id":         "new-day-1",
						"day_number": 2,
						"title":      "Added Day",
						"questions": []gin.H{
							{"id": "new-q-1", "question_text": "What changed?", "question_type": "reflection", "order": 1},
						},
					},
				},
			},
		},
	}

	w := doJSON(r, http.MethodPut, "/admin/studies/"+id, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Study domstudies.Study `json:"study"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Editable, Second Edition", resp.Study.Title)
	require.Len(t, resp.Study.Weeks, 1)
	require.Len(t, resp.Study.Weeks[0].Days, 2)
	assert.Equal(t, "Added Day", resp.Study.Weeks[0].Days[1].Title)
}

func TestUpdateUnknownStudy(t *testing.T) {
	r, _, _ := setupTest(t)

	w := doJSON(r, http.MethodPut, "/admin/studies/none", gin.H{"title": "x"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "study not found")
}

func TestDeleteStudyEndpoint(t *testing.T) {
	r, _, _ := setupTest(t)
	id := createViaAPI(t, r, "Temporary")

	w := doJSON(r, http.MethodDelete, "/admin/studies/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "deleted")

	w = doJSON(r, http.MethodDelete, "/admin/studies/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListStudiesHidesDrafts(t *testing.T) {
	r, svc, _ := setupTest(t)

	_, err := svc.Create(context.Background(), ingest.ParsedStudy{Title: "Draft"}, ingest.CreateOptions{}, 1)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), ingest.ParsedStudy{Title: "Live"}, ingest.CreateOptions{IsPublished: true}, 1)
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/studies", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []domstudies.Study
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Live", list[0].Title)

	w = doJSON(r, http.MethodGet, "/admin/studies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestGetStudyPremiumRequiresPurchase(t *testing.T) {
	r, svc, db := setupTest(t)

	res, err := svc.Create(context.Background(),
		ingest.ParsedStudy{Title: "Premium"},
		ingest.CreateOptions{IsPublished: true, IsPremium: true, Price: 9.99}, 1)
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/studies/"+res.Study.ID, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "requires a purchase")

	require.NoError(t, db.Create(&users.User{ID: 2, Name: "Member", Email: "member@example.com", Role: "member"}).Error)
	require.NoError(t, db.Create(&billing.Purchase{
		UserID:          2,
		StudyID:         res.Study.ID,
		StripeSessionID: "cs_test_123",
		AmountUSD:       9.99,
		Status:          "paid",
	}).Error)

	w = doJSON(r, http.MethodGet, "/studies/"+res.Study.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got domstudies.Study
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Premium", got.Title)
}

func TestGetStudyDraftHiddenFromMembers(t *testing.T) {
	r, svc, _ := setupTest(t)

	res, err := svc.Create(context.Background(),
		ingest.ParsedStudy{Title: "Unreleased"}, ingest.CreateOptions{}, 1)
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/studies/"+res.Study.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWriteIngestErrorTimeout(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	writeIngestError(c, &ingest.CreateError{
		WeekNumber:   3,
		Cause:        &ingest.TimeoutError{Op: "create days", Cause: context.DeadlineExceeded},
		Compensation: ingest.CompensationSucceeded,
	})

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "Split the study into smaller parts or retry.")
}

func TestWriteIngestErrorReload(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// A reload wrapping a timeout must not invite an ingestion retry.
	writeIngestError(c, &ingest.ReloadError{
		StudyID: "abc",
		Cause:   &ingest.TimeoutError{Op: "load study", Cause: context.DeadlineExceeded},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "saved but could not be reloaded")
}

func TestParseNodeRef(t *testing.T) {
	_, ok := parseNodeRef("").Existing()
	assert.False(t, ok)

	_, ok = parseNodeRef("new-week-3").Existing()
	assert.False(t, ok)

	id, ok := parseNodeRef("7b6d8a50-0c6e-4f3a-9f0e-1a2b3c4d5e6f").Existing()
	assert.True(t, ok)
	assert.Equal(t, "7b6d8a50-0c6e-4f3a-9f0e-1a2b3c4d5e6f", id)
}
