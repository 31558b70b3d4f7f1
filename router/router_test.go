package router

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"expensetracker/config"
	"expensetracker/models"
	"expensetracker/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore 路由测试用的空实现
type stubStore struct {
	panicOnList bool
}

func (s *stubStore) Insert(e *models.Expense) error {
	e.ID = 1
	return nil
}

func (s *stubStore) List(category string) ([]models.Expense, error) {
	if s.panicOnList {
		panic("boom")
	}
	return []models.Expense{}, nil
}

func (s *stubStore) DeleteByID(id uint) error {
	return store.ErrNotFound
}

func (s *stubStore) SumByCategory(category string) (*store.Summary, error) {
	return &store.Summary{TotalsByCategory: map[string]float64{}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: ":8080", Mode: "test"},
		CORS:   config.CORSConfig{Origins: []string{"*"}},
	}
}

func TestSetupRouter_Health(t *testing.T) {
	r := SetupRouter(testConfig(), &stubStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	assert.Equal(t, 200, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestSetupRouter_NoRoute(t *testing.T) {
	r := SetupRouter(testConfig(), &stubStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/nonexistent", nil))

	assert.Equal(t, 404, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestSetupRouter_PanicRecovery(t *testing.T) {
	r := SetupRouter(testConfig(), &stubStore{panicOnList: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/expenses", nil))

	assert.Equal(t, 500, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestSetupRouter_DeleteNotFound(t *testing.T) {
	r := SetupRouter(testConfig(), &stubStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/expenses/42", nil))

	assert.Equal(t, 404, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestCORSMiddleware_AllowAll(t *testing.T) {
	r := SetupRouter(testConfig(), &stubStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/expenses", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	// 预检请求直接放行
	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_SpecificOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.Origins = []string{"http://localhost:5173"}
	r := SetupRouter(cfg, &stubStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	// 未在白名单内的来源不返回 CORS 头
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
