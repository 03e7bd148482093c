package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"artnexus/internal/config"
	"artnexus/internal/database"
	"artnexus/internal/domain/auth"
	"artnexus/internal/domain/catalog"
	"artnexus/internal/pkg/logging"
)

type e2eSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type testResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *errorDetail           `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupSuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:app_test_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn, database.Silent())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	cfg := &config.Config{
		AppEnv:                "test",
		JWTSecret:             "test_secret_key_32_characters_min",
		JWTTTL:                time.Hour,
		LoginRateLimitRPS:     1000,
		LoginRateLimitBurst:   1000,
		NotificationRetention: time.Hour,
		Currency:              "USD",
	}
	a := New(cfg, db, logging.Discard())
	return &e2eSuite{router: a.Router, db: db}
}

func (s *e2eSuite) do(t *testing.T, method, path string, body interface{}, token string) (int, *testResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp testResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, &resp
}

func (s *e2eSuite) register(t *testing.T, name, email string, role auth.Role) string {
	t.Helper()
	code, _ := s.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name": name, "email": email, "password": "secret123", "role": role,
	}, "")
	require.Equal(t, http.StatusCreated, code)
	return s.login(t, email)
}

func (s *e2eSuite) login(t *testing.T, email string) string {
	t.Helper()
	code, resp := s.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"email": email, "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, code)
	return resp.Data["access_token"].(string)
}

// admins are never self-registered
func (s *e2eSuite) seedAdmin(t *testing.T) string {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, auth.NewUserRepository(s.db).Create(context.Background(), &auth.User{
		Name: "Admin", Email: "admin@artnexus.test", PasswordHash: hash, Role: auth.RoleAdmin,
	}))
	return s.login(t, "admin@artnexus.test")
}

func (s *e2eSuite) seedCatalog(t *testing.T) (int64, int64) {
	t.Helper()
	country := catalog.Country{Name: "Mexico"}
	artType := catalog.ArtType{Name: "Painting"}
	require.NoError(t, s.db.Create(&country).Error)
	require.NoError(t, s.db.Create(&artType).Error)
	return country.ID, artType.ID
}

func idOf(t *testing.T, v interface{}) int64 {
	t.Helper()
	m, ok := v.(map[string]interface{})
	require.True(t, ok)
	return int64(m["id"].(float64))
}

func TestHealth(t *testing.T) {
	s := setupSuite(t)
	code, resp := s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Data["status"])
}

func TestMarketplaceFlow(t *testing.T) {
	s := setupSuite(t)
	countryID, typeID := s.seedCatalog(t)

	artiste := s.register(t, "Frida", "frida@artnexus.test", auth.RoleArtiste)
	buyer := s.register(t, "Diego", "diego@artnexus.test", auth.RoleUser)
	admin := s.seedAdmin(t)

	// artiste lists a piece; it stays hidden until approved
	code, resp := s.do(t, http.MethodPost, "/api/v1/arts", gin.H{
		"title": "Self Portrait", "price": "100.00", "country_id": countryID, "art_type_id": typeID,
	}, artiste)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	artID := idOf(t, resp.Data["art"])

	code, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/arts/%d", artID), nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/arts/%d/approve", artID), nil, admin)
	require.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/countries/%d/categories/%d/arts", countryID, typeID), nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data["arts"], 1)

	// buyer funds the wallet and buys
	code, _ = s.do(t, http.MethodPost, "/api/v1/wallet/top-up", gin.H{"amount": "150"}, buyer)
	require.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/purchases/arts/%d", artID), nil, buyer)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	purchaseID := idOf(t, resp.Data["purchase"])

	code, resp = s.do(t, http.MethodGet, "/api/v1/wallet", nil, buyer)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "50.00", resp.Data["balance"])

	// a second attempt sees the piece as sold
	code, resp = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/purchases/arts/%d", artID), nil, buyer)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_AVAILABLE", resp.Error.Code)

	// approval pays the artiste
	code, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/purchases/%d/approve", purchaseID), nil, admin)
	require.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/purchases/%d/approve", purchaseID), nil, admin)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ALREADY_APPROVED", resp.Error.Code)

	code, resp = s.do(t, http.MethodGet, "/api/v1/wallet", nil, artiste)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "100.00", resp.Data["balance"])

	code, resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/purchases/arts/%d", artID), nil, buyer)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp.Data["purchase"].(map[string]interface{})["is_approved"])

	// approved, purchased, paid
	code, resp = s.do(t, http.MethodGet, "/api/v1/notifications", nil, artiste)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data["notifications"], 3)
}

func TestRoleGates(t *testing.T) {
	s := setupSuite(t)
	buyer := s.register(t, "Diego", "diego@artnexus.test", auth.RoleUser)
	admin := s.seedAdmin(t)

	code, resp := s.do(t, http.MethodGet, "/api/v1/wallet", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, resp.Success)

	code, _ = s.do(t, http.MethodPost, "/api/v1/arts", gin.H{"title": "x", "price": "1"}, buyer)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/admin/purchases", nil, buyer)
	assert.Equal(t, http.StatusForbidden, code)

	// admins hold no wallet
	code, _ = s.do(t, http.MethodGet, "/api/v1/wallet", nil, admin)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/admin/artistes", nil, admin)
	assert.Equal(t, http.StatusOK, code)
}

func TestCollaborationChatOverHTTP(t *testing.T) {
	s := setupSuite(t)
	owner := s.register(t, "Frida", "frida@artnexus.test", auth.RoleArtiste)
	member := s.register(t, "Tina", "tina@artnexus.test", auth.RoleArtiste)
	outsider := s.register(t, "Leo", "leo@artnexus.test", auth.RoleArtiste)

	code, resp := s.do(t, http.MethodPost, "/api/v1/collaborations", gin.H{
		"project_name": "Mural", "skills_required": []string{"fresco"}, "number_of_collaborators": 3,
	}, owner)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	collabID := idOf(t, resp.Data["collaboration"])

	code, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/collaborations/%d/join", collabID), nil, member)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/collaborations/%d/messages", collabID), gin.H{"body": "hello"}, member)
	require.Equal(t, http.StatusCreated, code)

	code, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/collaborations/%d/messages", collabID), nil, outsider)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/collaborations/%d/messages", collabID), nil, owner)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data["messages"], 1)

	code, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/collaborations/%d", collabID), nil, owner)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/collaborations/%d/messages", collabID), nil, owner)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestScheduleRegistersHousekeeping(t *testing.T) {
	s := setupSuite(t)
	cfg := &config.Config{
		JWTSecret: "test_secret_key_32_characters_min", JWTTTL: time.Hour,
		LoginRateLimitRPS: 1, LoginRateLimitBurst: 1, Currency: "USD",
	}
	a := New(cfg, s.db, logging.Discard())

	c, err := a.Schedule(context.Background(), time.Hour, logging.Discard())
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
}
