package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/hosteltracker/backend/src/config"
	"github.com/username/hosteltracker/backend/src/database"
	"github.com/username/hosteltracker/backend/src/logger"
	"github.com/username/hosteltracker/backend/src/models"
	"github.com/username/hosteltracker/backend/src/security"
	"github.com/username/hosteltracker/backend/src/services"
)

var (
	testUserHandler    *UserHandler
	testCSRFHandler    *CSRFHandler
	testRevenueHandler *RevenueHandler
	testReportHandler  *ReportHandler
	testRevenueService *services.RevenueService
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	config.Cfg = &config.AppConfig{
		JWTSecret:          "test-secret-key-that-is-long-enough-123456",
		CSRFAuthKey:        []byte("test-csrf-key-that-is-32-bytes!!"),
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
	}

	dir, err := os.MkdirTemp("", "hosteltracker-handlers-*")
	if err != nil {
		panic(err)
	}
	database.InitDB(filepath.Join(dir, "test.db"))

	c := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)
	testRevenueService = services.NewRevenueService(c)
	expenseService := services.NewExpenseService(c)
	reportService := services.NewReportService(testRevenueService, expenseService, c)

	testUserHandler = NewUserHandler(security.NewAuthService(config.Cfg.JWTSecret))
	testCSRFHandler = NewCSRFHandler(config.Cfg.CSRFAuthKey)
	testRevenueHandler = NewRevenueHandler(testRevenueService)
	testReportHandler = NewReportHandler(reportService)

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestCSRFTokenIssueAndVerify(t *testing.T) {
	rec := httptest.NewRecorder()
	testCSRFHandler.GetCSRFToken(rec, httptest.NewRequest(http.MethodGet, "/api/auth/csrf", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GetCSRFToken status = %d", rec.Code)
	}
	token := rec.Header().Get("X-CSRF-Token")
	if token == "" {
		t.Fatal("no token in response header")
	}

	protected := testCSRFHandler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
		req.Header.Set(csrfHeaderName, token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("GET bypasses the check", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("header cookie mismatch rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
		req.Header.Set(csrfHeaderName, "something-else")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("forged unsigned token rejected", func(t *testing.T) {
		forged := "forgedvalue.deadbeef"
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: forged})
		req.Header.Set(csrfHeaderName, forged)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]interface{}{
		"username": username,
		"password": "a-strong-password",
		"name":     "Test User",
	})
	rec := httptest.NewRecorder()
	testUserHandler.RegisterUserHandler(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}

	body, _ = json.Marshal(map[string]string{
		"username": username,
		"password": "a-strong-password",
	})
	rec = httptest.NewRecorder()
	testUserHandler.LoginUserHandler(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("login response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("no access token in login response")
	}
	return resp.AccessToken
}

func TestLoginAndAuthMiddleware(t *testing.T) {
	token := registerAndLogin(t, "alice")

	protected := testUserHandler.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); !ok {
			t.Error("userID missing from context")
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected(rec, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		protected(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("token dies with its session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		testUserHandler.LogoutUserHandler(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("logout status = %d", rec.Code)
		}

		req = httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec = httptest.NewRecorder()
		protected(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status after logout = %d, want 401", rec.Code)
		}
	})
}

func TestLoginRejectsBadPassword(t *testing.T) {
	registerAndLogin(t, "bob")

	body, _ := json.Marshal(map[string]string{
		"username": "bob",
		"password": "wrong-password",
	})
	rec := httptest.NewRecorder()
	testUserHandler.LoginUserHandler(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body)))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	registerAndLogin(t, "carol")

	body, _ := json.Marshal(map[string]string{
		"username": "carol",
		"password": "another-password",
	})
	rec := httptest.NewRecorder()
	testUserHandler.RegisterUserHandler(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestMonthlySummaryETag(t *testing.T) {
	if _, err := testRevenueService.CreateRevenue(models.RevenueInput{Date: "2032-01-05", CashAmount: 100}); err != nil {
		t.Fatalf("seed revenue: %v", err)
	}

	rec := httptest.NewRecorder()
	testReportHandler.GetMonthlySummaryHandler(rec, httptest.NewRequest(http.MethodGet, "/api/reports/monthly-summary?month=2032-01", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("no ETag on summary response")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reports/monthly-summary?month=2032-01", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	testReportHandler.GetMonthlySummaryHandler(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("status with matching ETag = %d, want 304", rec.Code)
	}
}

func TestMonthlySummaryRejectsBadMonth(t *testing.T) {
	rec := httptest.NewRecorder()
	testReportHandler.GetMonthlySummaryHandler(rec, httptest.NewRequest(http.MethodGet, "/api/reports/monthly-summary?month=January", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRevenueHandlerCRUD(t *testing.T) {
	body, _ := json.Marshal(models.RevenueInput{
		Date:       "2032-02-01",
		CashAmount: 75,
		Contributions: []models.Contribution{
			{Name: "MAHABOOB BI", Amount: 25},
		},
	})
	rec := httptest.NewRecorder()
	testRevenueHandler.CreateRevenueHandler(rec, httptest.NewRequest(http.MethodPost, "/api/revenue", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Revenue
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("create response: %v", err)
	}
	if created.TotalRevenue != 100 {
		t.Errorf("TotalRevenue = %v, want 100", created.TotalRevenue)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/revenue/"+created.ID, nil)
	req.SetPathValue("id", created.ID)
	rec = httptest.NewRecorder()
	testRevenueHandler.GetRevenueHandler(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/revenue/missing", nil)
	req.SetPathValue("id", "missing")
	rec = httptest.NewRecorder()
	testRevenueHandler.GetRevenueHandler(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing record status = %d, want 404", rec.Code)
	}

	body, _ = json.Marshal(models.RevenueInput{Date: "2032-02-01", CashAmount: -5})
	rec = httptest.NewRecorder()
	testRevenueHandler.CreateRevenueHandler(rec, httptest.NewRequest(http.MethodPost, "/api/revenue", bytes.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative amount status = %d, want 400", rec.Code)
	}
}
