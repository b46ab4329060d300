package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"lawdesk-platform/internal/audit"
	"lawdesk-platform/internal/auth"
	"lawdesk-platform/internal/booking"
	"lawdesk-platform/internal/cases"
	"lawdesk-platform/internal/documents"
	"lawdesk-platform/internal/export"
	"lawdesk-platform/internal/versions"
	"lawdesk-platform/pkg/logger"
	"lawdesk-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse input, call internal services, translate errors.
type Handlers struct {
	DB        *sql.DB
	Auth      *auth.Manager
	Cases     *cases.Service
	Documents *documents.Service
	Versions  *versions.Service
	Export    *export.Generator
	Audit     *audit.Service
	Bookings  *booking.Service
}

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and hidden behind a generic 500 so internals never leak.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cases.ErrNotFound),
		errors.Is(err, documents.ErrNotFound),
		errors.Is(err, documents.ErrCaseNotFound),
		errors.Is(err, versions.ErrNotFound),
		errors.Is(err, versions.ErrDocumentNotFound),
		errors.Is(err, booking.ErrNotFound),
		errors.Is(err, export.ErrVersionNotFound),
		errors.Is(err, export.ErrDocumentNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, versions.ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, cases.ErrInvalidArgument),
		errors.Is(err, documents.ErrInvalidArgument),
		errors.Is(err, documents.ErrUnsupportedDocumentType),
		errors.Is(err, versions.ErrInvalidArgument),
		errors.Is(err, booking.ErrInvalidArgument),
		errors.Is(err, export.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.FromGin(c).Error("request failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func actor(c *gin.Context) string {
	uid, _ := auth.UserID(c.Request.Context())
	return uid
}

// --- Health ---

func (h Handlers) Healthz(c *gin.Context) {
	if h.DB != nil {
		if err := utils.HealthCheck(c.Request.Context(), h.DB, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- Auth ---

type loginRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Login issues a JWT token pair. Credential validation is delegated to the
// identity provider fronting this API; the back office only mints tokens for
// identities it is handed.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id and role required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Cases ---

func (h Handlers) CreateCase(c *gin.Context) {
	var req cases.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Cases.Create(c.Request.Context(), req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": out})
}

func (h Handlers) GetCase(c *gin.Context) {
	out, err := h.Cases.Get(c.Request.Context(), c.Param("case_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h Handlers) ListCases(c *gin.Context) {
	out, err := h.Cases.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h Handlers) UpdateCase(c *gin.Context) {
	var req cases.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Cases.Update(c.Request.Context(), c.Param("case_id"), req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h Handlers) DeleteCase(c *gin.Context) {
	if err := h.Cases.Delete(c.Request.Context(), c.Param("case_id"), actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h Handlers) CaseAuditTrail(c *gin.Context) {
	caseID := c.Param("case_id")
	events, err := h.Audit.Trail(c.Request.Context(), caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	// The trail outlives its case: after deletion the history, including the
	// case_deleted event, stays readable. Only a case that never produced an
	// event and does not exist is a 404.
	if len(events) == 0 {
		if _, err := h.Cases.Get(c.Request.Context(), caseID); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// --- Documents ---

func (h Handlers) CreateDocument(c *gin.Context) {
	var req documents.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Documents.Create(c.Request.Context(), req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": out})
}

func (h Handlers) GetDocument(c *gin.Context) {
	out, err := h.Documents.Get(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h Handlers) ListDocuments(c *gin.Context) {
	out, err := h.Documents.List(c.Request.Context(), c.Query("case_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h Handlers) UpdateDocument(c *gin.Context) {
	var req documents.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Documents.Update(c.Request.Context(), c.Param("document_id"), req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h Handlers) DeleteDocument(c *gin.Context) {
	if err := h.Documents.Delete(c.Request.Context(), c.Param("document_id"), actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Versions ---

func (h Handlers) CreateVersion(c *gin.Context) {
	out, err := h.Versions.CreateDraft(c.Request.Context(), c.Param("document_id"), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": out})
}

func (h Handlers) ListVersions(c *gin.Context) {
	out, err := h.Versions.ListByDocument(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h Handlers) SubmitVersion(c *gin.Context) {
	out, err := h.Versions.Submit(c.Request.Context(), c.Param("version_id"), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h Handlers) ApproveVersion(c *gin.Context) {
	out, err := h.Versions.Approve(c.Request.Context(), c.Param("version_id"), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

type grantApprovalRequest struct {
	Locale string `json:"locale"`
}

func (h Handlers) GrantLocaleApproval(c *gin.Context) {
	var req grantApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Versions.GrantLocaleApproval(c.Request.Context(), c.Param("version_id"), req.Locale, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": out})
}

// --- Export ---

type exportRequest struct {
	VersionID   string   `json:"version_id"`
	TargetLangs []string `json:"target_langs"`
}

// ExportDocument renders an approved version as a verifiable PDF package.
//
// Order matters here: gate check first, render second, status advance and
// audit event last. A refused or failed export must leave the version
// untouched and write no export_created event.
func (h Handlers) ExportDocument(c *gin.Context) {
	documentID := c.Param("document_id")

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.VersionID == "" || len(req.TargetLangs) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "version_id and target_langs required"})
		return
	}

	v, err := h.Versions.Get(c.Request.Context(), req.VersionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if v.DocumentID != documentID {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "version does not belong to document"})
		return
	}

	readiness, err := h.Versions.CheckExportReadiness(c.Request.Context(), req.VersionID, req.TargetLangs)
	if err != nil {
		respondError(c, err)
		return
	}
	if !readiness.Ready {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":           "version is not ready for export",
			"reason":          readiness.Reason,
			"missing_locales": readiness.MissingLocales,
		})
		return
	}

	pkg, err := h.Export.GeneratePackage(c.Request.Context(), req.VersionID, req.TargetLangs, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.Versions.MarkExported(c.Request.Context(), req.VersionID, actor(c)); err != nil {
		respondError(c, err)
		return
	}

	doc, docErr := h.Documents.Get(c.Request.Context(), documentID)
	var caseID *string
	if docErr == nil {
		caseID = doc.CaseID
	}
	h.Audit.Record(c.Request.Context(), audit.Event{
		CaseID:     caseID,
		EntityType: audit.EntityTypeExport,
		EntityID:   req.VersionID,
		Action:     audit.ActionExportCreated,
		Meta: audit.Meta(map[string]any{
			"document_id":  documentID,
			"package_hash": pkg.Hash,
			"target_langs": req.TargetLangs,
		}),
		ActorID: actor(c),
	})

	c.Header("X-Package-Hash", pkg.Hash)
	c.Header("X-QR-Code-URL", pkg.QRCodeURL)
	c.Data(http.StatusOK, "application/pdf", pkg.Buffer)
}

// --- Bookings ---

func (h Handlers) CreateBooking(c *gin.Context) {
	var req booking.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Bookings.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": out})
}

func (h Handlers) AdminListBookings(c *gin.Context) {
	out, err := h.Bookings.List(c.Request.Context(), booking.Status(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

type bookingStatusRequest struct {
	Status string `json:"status"`
}

func (h Handlers) AdminUpdateBookingStatus(c *gin.Context) {
	var req bookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := h.Bookings.UpdateStatus(c.Request.Context(), c.Param("booking_id"), booking.Status(req.Status)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": c.Param("booking_id"), "status": req.Status}})
}
