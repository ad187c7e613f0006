package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vlasovm/shop_backend/internal/models"
	"github.com/vlasovm/shop_backend/internal/repo"
	"github.com/vlasovm/shop_backend/internal/search"
	"github.com/vlasovm/shop_backend/internal/service"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.RefreshToken{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)
	r := repo.New(db)

	jwtSecret := []byte("test-jwt-secret")
	refreshSecret := []byte("test-refresh-secret")

	deps := &Deps{
		Auth: &AuthHTTP{Svc: &service.AuthService{
			Repo:          r,
			JWTSecret:     jwtSecret,
			RefreshSecret: refreshSecret,
		}},
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{
			Repo:    r,
			Indexer: &search.Indexer{},
		}},
		Order:     &OrderHTTP{Svc: &service.OrderService{Repo: r}},
		JWTSecret: jwtSecret,
	}

	e := echo.New()
	Register(e, deps)

	return &testEnv{T: t, E: e, DB: db}
}

func (env *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Detail string `json:"detail"`
	}
	decode(t, rec, &resp)
	return resp.Detail
}

func registerPayload(email, username string) map[string]string {
	return map[string]string{
		"email":       email,
		"username":    username,
		"first_name":  "Test",
		"last_name":   "User",
		"password":    "password123",
		"re_password": "password123",
	}
}

// registerAndLogin creates a fresh user and returns its access and refresh
// tokens.
func (env *testEnv) registerAndLogin(email, username string) (string, string) {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/register/", registerPayload(email, username), "")
	require.Equal(env.T, http.StatusCreated, rec.Code)

	recLogin := env.do(http.MethodPost, "/login/", map[string]string{
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(env.T, http.StatusOK, recLogin.Code)

	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	decode(env.T, recLogin, &tokens)
	require.NotEmpty(env.T, tokens.Access)
	require.NotEmpty(env.T, tokens.Refresh)
	return tokens.Access, tokens.Refresh
}

func (env *testEnv) createCategory(token, name string) uint {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/categories/", map[string]string{"name": name}, token)
	require.Equal(env.T, http.StatusCreated, rec.Code)

	var cat models.Category
	decode(env.T, rec, &cat)
	require.NotZero(env.T, cat.ID)
	return cat.ID
}

func (env *testEnv) createProduct(token, name string, categoryID uint) uint {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/products/", map[string]interface{}{
		"product_name": name,
		"description":  fmt.Sprintf("description of %s", name),
		"price":        9.99,
		"category":     categoryID,
	}, token)
	require.Equal(env.T, http.StatusCreated, rec.Code)

	var prod models.Product
	decode(env.T, rec, &prod)
	require.NotZero(env.T, prod.ID)
	return prod.ID
}
