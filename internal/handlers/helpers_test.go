package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookbakery/storefront/internal/hash"
	adminauth "github.com/bookbakery/storefront/internal/middleware/auth"
	"github.com/bookbakery/storefront/internal/models"
	"github.com/bookbakery/storefront/internal/repo"
	"github.com/bookbakery/storefront/internal/service/checkout"
)

type recordingMailer struct {
	sent []*models.Order
}

func (m *recordingMailer) SendOrderConfirmation(_ context.Context, order *models.Order) error {
	m.sent = append(m.sent, order)
	return nil
}

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	O      *OrderHandler
	P      *ProductHandler
	C      *CategoryHandler
	A      *AdminHandler
	MW     *adminauth.AdminMiddleware
	Mailer *recordingMailer

	JWTSecret []byte
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.AdminUser{},
	))

	mailer := &recordingMailer{}
	svc := checkout.NewService(db, mailer, "http://localhost:3000")
	orders := &repo.OrderRepo{DB: db}
	secret := []byte("test_secret")

	return &testEnv{
		T:         t,
		E:         echo.New(),
		DB:        db,
		O:         &OrderHandler{Svc: svc, Orders: orders},
		P:         &ProductHandler{DB: db},
		C:         &CategoryHandler{DB: db},
		A:         &AdminHandler{DB: db, JWTSecret: secret, Orders: orders, Svc: svc},
		MW:        &adminauth.AdminMiddleware{DB: db, JWTSecret: secret},
		Mailer:    mailer,
		JWTSecret: secret,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, headers ...http.Header) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, h := range headers {
		for k, vs := range h {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) seedProduct(name, price string, stock int) models.Product {
	p := models.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return p
}

func (env *testEnv) seedAdmin(username, password string) models.AdminUser {
	passwordHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)
	admin := models.AdminUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: passwordHash,
	}
	require.NoError(env.T, env.DB.Create(&admin).Error)
	return admin
}

func (env *testEnv) adminToken(username, password string) string {
	rec, c := env.doJSONRequest(http.MethodPost, "/api/admin/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	require.NoError(env.T, env.A.Login(c))
	require.Equal(env.T, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp.Token)
	return resp.Token
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
}
