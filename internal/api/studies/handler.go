package studies

import (
	"errors"
	"net/http"

	"bible-study-app/database"
	"bible-study-app/internal/domain/billing"
	"bible-study-app/internal/domain/studies"
	"bible-study-app/internal/ingest"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *ingest.Service
}

func NewHandler(svc *ingest.Service) *Handler {
	return &Handler{svc: svc}
}

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// ------------------------------
// POST /admin/studies
// ------------------------------
func (h *Handler) CreateStudy(c *gin.Context) {
	var req CreateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	parsed, opts := req.toParsed()
	result, err := h.svc.Create(c.Request.Context(), parsed, opts, userID)
	if err != nil {
		writeIngestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"study":    result.Study,
		"stats":    result.Stats,
		"warnings": result.Warnings,
	})
}

// ------------------------------
// PUT /admin/studies/:id
// ------------------------------
func (h *Handler) UpdateStudy(c *gin.Context) {
	id := c.Param("id")

	var req UpdateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	study, err := h.svc.Reconcile(c.Request.Context(), id, req.toEdit(), userID)
	if err != nil {
		writeIngestError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"study": study})
}

// ------------------------------
// DELETE /admin/studies/:id
// ------------------------------
func (h *Handler) DeleteStudy(c *gin.Context) {
	id := c.Param("id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, userID); err != nil {
		writeIngestError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ------------------------------
// GET /admin/studies (all, including drafts)
// ------------------------------
func (h *Handler) AdminListStudies(c *gin.Context) {
	var list []studies.Study
	if err := database.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load studies"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// ------------------------------
// GET /studies (published, metadata only)
// ------------------------------
func (h *Handler) ListStudies(c *gin.Context) {
	var list []studies.Study
	if err := publishedStudiesQuery(database.DB).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load studies"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// ------------------------------
// GET /studies/:id (full tree; premium studies require a purchase)
// ------------------------------
func (h *Handler) GetStudy(c *gin.Context) {
	id := c.Param("id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	isAdmin := c.GetString("role") == "admin"

	study, err := h.svc.Load(c.Request.Context(), id)
	if err != nil {
		writeIngestError(c, err)
		return
	}

	if !study.IsPublished && !isAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "Study not found"})
		return
	}

	if study.IsPremium && !isAdmin {
		hasAccess, err := billing.HasAccess(database.DB, userID, study.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
			return
		}
		if !hasAccess {
			c.JSON(http.StatusForbidden, gin.H{"error": "This study requires a purchase"})
			return
		}
	}

	c.JSON(http.StatusOK, study)
}

// writeIngestError maps the engine's error taxonomy onto HTTP responses.
// Internal error text never reaches the client except for validation detail.
func writeIngestError(c *gin.Context, err error) {
	var vErr *ingest.ValidationError
	var conflict *ingest.ConflictError
	var timeout *ingest.TimeoutError
	var notFound *ingest.NotFoundError
	var reload *ingest.ReloadError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Study failed validation",
			"details":  vErr.Errors,
			"warnings": vErr.Warnings,
		})
	// Checked before the wrapped classes: a reload failure may carry a
	// timeout or not-found cause, but the study is already saved.
	case errors.As(err, &reload):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Study was saved but could not be reloaded"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": "A study with conflicting data already exists"})
	case errors.As(err, &timeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "The operation timed out. Split the study into smaller parts or retry."})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Entity + " not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save study"})
	}
}
