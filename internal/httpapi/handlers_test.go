package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lawdesk-platform/internal/audit"
	"lawdesk-platform/internal/auth"
	"lawdesk-platform/internal/booking"
	"lawdesk-platform/internal/cases"
	"lawdesk-platform/internal/config"
	"lawdesk-platform/internal/documents"
	"lawdesk-platform/internal/export"
	"lawdesk-platform/internal/ratelimit"
	"lawdesk-platform/internal/rbac"
	"lawdesk-platform/internal/versions"

	"github.com/gin-gonic/gin"
)

type testEnv struct {
	router *gin.Engine
	auth   *auth.Manager

	casesSvc    *cases.Service
	docsSvc     *documents.Service
	versionsSvc *versions.Service

	docsRepo     *documents.MemoryRepo
	versionsRepo *versions.MemoryRepo
	auditRepo    *audit.MemoryRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager, err := auth.NewManager(config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("auth manager: %v", err)
	}

	auditRepo := audit.NewMemoryRepo()
	auditSvc := audit.NewService(auditRepo)
	casesRepo := cases.NewMemoryRepo()
	docsRepo := documents.NewMemoryRepo()
	versionsRepo := versions.NewMemoryRepo()

	docsSvc := documents.NewService(docsRepo, casesRepo, auditSvc)
	casesSvc := cases.NewService(casesRepo, docsSvc, auditSvc)
	versionsSvc := versions.NewService(versionsRepo, docsRepo, auditSvc)

	h := Handlers{
		Auth:      manager,
		Cases:     casesSvc,
		Documents: docsSvc,
		Versions:  versionsSvc,
		Export:    export.NewGenerator(versionsRepo, docsRepo, "https://lawdesk.example", ""),
		Audit:     auditSvc,
		Bookings:  booking.NewService(booking.NewMemoryRepo()),
	}

	limiter := ratelimit.NewLimiter(nil, "rl:test", 5, time.Minute)

	r := gin.New()
	r.GET("/healthz", h.Healthz)
	r.POST("/v1/auth/login", h.Login)
	r.POST("/v1/bookings", ratelimit.Middleware(limiter, slog.Default()), h.CreateBooking)

	v1 := r.Group("/v1")
	v1.Use(auth.RequireAccessToken(manager))
	v1.Use(rbac.RequireStaff())
	{
		v1.POST("/cases", h.CreateCase)
		v1.GET("/cases/:case_id", h.GetCase)
		v1.PUT("/cases/:case_id", h.UpdateCase)
		v1.DELETE("/cases/:case_id", rbac.RequireAdmin(), h.DeleteCase)
		v1.GET("/cases/:case_id/audit", h.CaseAuditTrail)

		v1.POST("/documents", h.CreateDocument)
		v1.GET("/documents/:document_id", h.GetDocument)
		v1.DELETE("/documents/:document_id", rbac.RequireAdmin(), h.DeleteDocument)
		v1.POST("/documents/:document_id/versions", h.CreateVersion)
		v1.POST("/documents/:document_id/export", h.ExportDocument)

		v1.POST("/versions/:version_id/submit", h.SubmitVersion)
		v1.POST("/versions/:version_id/approve", rbac.RequireAdmin(), h.ApproveVersion)
		v1.POST("/versions/:version_id/approvals", rbac.RequireAdmin(), h.GrantLocaleApproval)
	}

	return &testEnv{
		router:       r,
		auth:         manager,
		casesSvc:     casesSvc,
		docsSvc:      docsSvc,
		versionsSvc:  versionsSvc,
		docsRepo:     docsRepo,
		versionsRepo: versionsRepo,
		auditRepo:    auditRepo,
	}
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	pair, err := e.auth.IssuePair(time.Now(), userID, role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return pair.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// seedApprovedVersion creates a case, a linked document and an approved
// version through the services, bypassing HTTP for the fixtures.
func seedApprovedVersion(t *testing.T, e *testEnv) (cases.Case, documents.Document, versions.Version) {
	t.Helper()
	ctx := context.Background()

	c, err := e.casesSvc.Create(ctx, cases.CreateRequest{
		CaseName: "Kim v. ABC",
		Fields:   cases.CaseFields{ClientName: "Kim Minji"},
	}, "admin-1")
	if err != nil {
		t.Fatalf("seed case: %v", err)
	}
	d, err := e.docsSvc.Create(ctx, documents.CreateRequest{
		Type:   documents.TypeAgreement,
		Locale: "ko",
		CaseID: c.ID,
	}, "admin-1")
	if err != nil {
		t.Fatalf("seed document: %v", err)
	}
	v, err := e.versionsSvc.CreateDraft(ctx, d.ID, "lawyer-1")
	if err != nil {
		t.Fatalf("seed version: %v", err)
	}
	if v, err = e.versionsSvc.Submit(ctx, v.ID, "lawyer-1"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if v, err = e.versionsSvc.Approve(ctx, v.ID, "admin-1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	return c, d, v
}

func countAction(events []audit.Event, action string) int {
	n := 0
	for _, e := range events {
		if e.Action == action {
			n++
		}
	}
	return n
}

func TestBackOfficeRequiresToken(t *testing.T) {
	e := newTestEnv(t)
	if w := e.do(t, http.MethodPost, "/v1/cases", "", gin.H{"case_name": "x"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestApprovalRequiresAdminRole(t *testing.T) {
	e := newTestEnv(t)
	_, _, v := seedApprovedVersion(t, e)

	tok := e.token(t, "paralegal-1", rbac.RoleParalegal)
	w := e.do(t, http.MethodPost, "/v1/versions/"+v.ID+"/approvals", tok, gin.H{"locale": "en"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestDeletionRequiresAdminRole(t *testing.T) {
	e := newTestEnv(t)
	c, d, _ := seedApprovedVersion(t, e)

	tok := e.token(t, "lawyer-1", rbac.RoleLawyer)
	if w := e.do(t, http.MethodDelete, "/v1/cases/"+c.ID, tok, nil); w.Code != http.StatusForbidden {
		t.Fatalf("case delete as lawyer: %d, want 403", w.Code)
	}
	if w := e.do(t, http.MethodDelete, "/v1/documents/"+d.ID, tok, nil); w.Code != http.StatusForbidden {
		t.Fatalf("document delete as lawyer: %d, want 403", w.Code)
	}

	// Nothing was deleted.
	if _, err := e.casesSvc.Get(context.Background(), c.ID); err != nil {
		t.Fatalf("case gone after refused delete: %v", err)
	}
	if _, ok, _ := e.docsRepo.Get(context.Background(), d.ID); !ok {
		t.Fatal("document gone after refused delete")
	}
}

func TestPublicBookingNeedsNoToken(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/v1/bookings", "", gin.H{
		"name":   "Park Junho",
		"phone":  "010-9876-5432",
		"locale": "ko",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestExportRefusedWithMissingLocaleApproval(t *testing.T) {
	e := newTestEnv(t)
	_, d, v := seedApprovedVersion(t, e)

	adminTok := e.token(t, "admin-1", rbac.RoleAdmin)
	if w := e.do(t, http.MethodPost, "/v1/versions/"+v.ID+"/approvals", adminTok, gin.H{"locale": "ko"}); w.Code != http.StatusCreated {
		t.Fatalf("grant ko: %d %s", w.Code, w.Body.String())
	}

	w := e.do(t, http.MethodPost, "/v1/documents/"+d.ID+"/export", adminTok, gin.H{
		"version_id":   v.ID,
		"target_langs": []string{"en", "ko"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "missing_approvals") {
		t.Fatalf("body lacks refusal reason: %s", w.Body.String())
	}

	// The refused export must leave no trace: status unchanged, no event.
	stored, ok, _ := e.versionsRepo.Get(context.Background(), v.ID)
	if !ok || stored.Status != versions.StatusApproved {
		t.Fatalf("version status = %s, want approved", stored.Status)
	}
	if n := countAction(e.auditRepo.Events(), audit.ActionExportCreated); n != 0 {
		t.Fatalf("found %d export_created events after refusal", n)
	}
}

func TestExportVersionMustBelongToDocument(t *testing.T) {
	e := newTestEnv(t)
	_, _, v := seedApprovedVersion(t, e)

	// A second standalone document that does not own v.
	other, err := e.docsSvc.Create(context.Background(), documents.CreateRequest{
		Type:   documents.TypeAgreement,
		Name:   "standalone",
		Locale: "ko",
	}, "admin-1")
	if err != nil {
		t.Fatalf("seed other document: %v", err)
	}

	adminTok := e.token(t, "admin-1", rbac.RoleAdmin)
	w := e.do(t, http.MethodPost, "/v1/documents/"+other.ID+"/export", adminTok, gin.H{
		"version_id":   v.ID,
		"target_langs": []string{"ko"},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %s", w.Code, w.Body.String())
	}
}

func TestExportSuccess(t *testing.T) {
	e := newTestEnv(t)
	c, d, v := seedApprovedVersion(t, e)

	adminTok := e.token(t, "admin-1", rbac.RoleAdmin)
	for _, locale := range []string{"en", "ko"} {
		if w := e.do(t, http.MethodPost, "/v1/versions/"+v.ID+"/approvals", adminTok, gin.H{"locale": locale}); w.Code != http.StatusCreated {
			t.Fatalf("grant %s: %d %s", locale, w.Code, w.Body.String())
		}
	}

	w := e.do(t, http.MethodPost, "/v1/documents/"+d.ID+"/export", adminTok, gin.H{
		"version_id":   v.ID,
		"target_langs": []string{"en", "ko"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if hash := w.Header().Get("X-Package-Hash"); len(hash) != 64 {
		t.Fatalf("X-Package-Hash = %q, want sha256 hex", hash)
	}
	if !strings.HasPrefix(w.Header().Get("X-QR-Code-URL"), "data:image/png;base64,") {
		t.Fatalf("X-QR-Code-URL = %.40q", w.Header().Get("X-QR-Code-URL"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("body is not a pdf")
	}

	stored, _, _ := e.versionsRepo.Get(context.Background(), v.ID)
	if stored.Status != versions.StatusExported {
		t.Fatalf("version status = %s, want exported", stored.Status)
	}

	trail, err := e.auditRepo.ListByCase(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("trail: %v", err)
	}
	if n := countAction(trail, audit.ActionExportCreated); n != 1 {
		t.Fatalf("export_created events in case trail = %d, want 1", n)
	}
}

func TestCaseRenameCascadesOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	c, d, _ := seedApprovedVersion(t, e)

	tok := e.token(t, "lawyer-1", rbac.RoleLawyer)
	w := e.do(t, http.MethodPut, "/v1/cases/"+c.ID, tok, gin.H{
		"case_name":               "Kim v. ABC Logistics",
		"case_data":               gin.H{"client_name": "Kim Minji"},
		"update_linked_documents": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	stored, ok, _ := e.docsRepo.Get(context.Background(), d.ID)
	if !ok || stored.Name != "Kim v. ABC Logistics" {
		t.Fatalf("linked document name = %q, want renamed", stored.Name)
	}

	trail, err := e.auditRepo.ListByCase(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("trail: %v", err)
	}
	if countAction(trail, audit.ActionCaseUpdated) != 1 || countAction(trail, audit.ActionDocumentUpdated) != 1 {
		t.Fatalf("cascade events missing from trail: %+v", trail)
	}

	// Audit endpoint exposes the same trail.
	w = e.do(t, http.MethodGet, "/v1/cases/"+c.ID+"/audit", tok, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"events"`) {
		t.Fatalf("audit endpoint: %d %s", w.Code, w.Body.String())
	}
}

func TestDeleteCaseKeepsDocumentsAndTrail(t *testing.T) {
	e := newTestEnv(t)
	c, d, _ := seedApprovedVersion(t, e)

	tok := e.token(t, "admin-1", rbac.RoleAdmin)
	if w := e.do(t, http.MethodDelete, "/v1/cases/"+c.ID, tok, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}

	stored, ok, _ := e.docsRepo.Get(context.Background(), d.ID)
	if !ok {
		t.Fatal("linked document deleted with case")
	}
	if stored.CaseID != nil || stored.IsCaseLinked {
		t.Fatalf("document still linked: %+v", stored)
	}

	// The trail of the deleted case survives and stays readable over HTTP.
	trail, err := e.auditRepo.ListByCase(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("trail: %v", err)
	}
	if countAction(trail, audit.ActionCaseDeleted) != 1 {
		t.Fatalf("case_deleted missing: %+v", trail)
	}

	w := e.do(t, http.MethodGet, "/v1/cases/"+c.ID+"/audit", tok, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), audit.ActionCaseDeleted) {
		t.Fatalf("audit of deleted case: %d %s", w.Code, w.Body.String())
	}

	// A case that never existed still 404s.
	if w := e.do(t, http.MethodGet, "/v1/cases/never-existed/audit", tok, nil); w.Code != http.StatusNotFound {
		t.Fatalf("audit of unknown case: %d", w.Code)
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/v1/auth/login", "", gin.H{"user_id": "admin-1", "role": rbac.RoleAdmin})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("incomplete pair: %+v", resp)
	}

	// The issued access token is accepted by the protected group.
	if w := e.do(t, http.MethodGet, "/v1/cases/missing", resp.AccessToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("token rejected or wrong status: %d", w.Code)
	}
}
