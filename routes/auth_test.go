package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gig-booking-server/config"
	"gig-booking-server/database"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpiryHours: 24},
		Booking: config.BookingConfig{
			DefaultPageSize: 10,
			MaxPageSize:     50,
		},
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.SetDB(db)

	router := gin.New()
	RegisterAuthRoutes(router.Group("/api/v1"))
	return router
}

func postJSON(router *gin.Engine, path string, body any, token string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginMe(t *testing.T) {
	router := setupAuthRouter(t)

	w := postJSON(router, "/api/v1/auth/register", gin.H{
		"username": "stageplayer",
		"email":    "player@test.local",
		"password": "correct-horse-battery",
		"role":     "musician",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}
	var registered struct {
		Token string `json:"token"`
		User  struct {
			ID   uint   `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &registered); err != nil {
		t.Fatalf("bad register body: %v", err)
	}
	if registered.Token == "" || registered.User.Role != "musician" {
		t.Errorf("unexpected register payload: %s", w.Body.String())
	}

	// Duplicate email is a conflict
	w = postJSON(router, "/api/v1/auth/register", gin.H{
		"username": "otherplayer",
		"email":    "player@test.local",
		"password": "correct-horse-battery",
	}, "")
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register returned %d, want 409", w.Code)
	}

	w = postJSON(router, "/api/v1/auth/login", gin.H{
		"email":    "player@test.local",
		"password": "correct-horse-battery",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}
	var loggedIn struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loggedIn); err != nil || loggedIn.Token == "" {
		t.Fatalf("bad login body: %s", w.Body.String())
	}

	w = postJSON(router, "/api/v1/auth/login", gin.H{
		"email":    "player@test.local",
		"password": "wrong-password",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password login returned %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+loggedIn.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me returned %d: %s", rec.Code, rec.Body.String())
	}
	var me struct {
		User struct {
			Email           string `json:"email"`
			MusicianProfile *struct {
				StageName string `json:"stage_name"`
			} `json:"musician_profile"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("bad me body: %v", err)
	}
	if me.User.Email != "player@test.local" {
		t.Errorf("me returned wrong user: %s", rec.Body.String())
	}
	// Musicians get an empty profile at registration
	if me.User.MusicianProfile == nil || me.User.MusicianProfile.StageName != "stageplayer" {
		t.Errorf("musician profile missing from me payload: %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated me returned %d, want 401", rec.Code)
	}
}
