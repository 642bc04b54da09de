package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bookbakery/storefront/internal/hash"
	adminauth "github.com/bookbakery/storefront/internal/middleware/auth"
	"github.com/bookbakery/storefront/internal/models"
	"github.com/bookbakery/storefront/internal/repo"
	"github.com/bookbakery/storefront/internal/service/checkout"
	"github.com/bookbakery/storefront/internal/util"
)

type AdminHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Orders    *repo.OrderRepo
	Svc       *checkout.Service
}

type adminProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func profileOf(a *models.AdminUser) adminProfile {
	return adminProfile{ID: a.ID, Username: a.Username, Email: a.Email}
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var admin models.AdminUser
	if err := h.DB.WithContext(c.Request().Context()).Where("username = ?", req.Username).First(&admin).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !hash.CheckPassword(admin.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	claims := jwt.MapClaims{
		"sub": admin.ID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"admin": profileOf(&admin),
	})
}

func (h *AdminHandler) Verify(c echo.Context) error {
	admin, ok := adminauth.AdminFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(http.StatusOK, echo.Map{"admin": profileOf(admin)})
}

func (h *AdminHandler) GetProfile(c echo.Context) error {
	admin, ok := adminauth.AdminFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(http.StatusOK, profileOf(admin))
}

func (h *AdminHandler) UpdateProfile(c echo.Context) error {
	admin, ok := adminauth.AdminFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username required")
	}

	admin.Username = req.Username
	admin.Email = req.Email
	if err := h.DB.WithContext(c.Request().Context()).Save(admin).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profileOf(admin))
}

func (h *AdminHandler) ChangePassword(c echo.Context) error {
	admin, ok := adminauth.AdminFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !hash.CheckPassword(admin.PasswordHash, req.CurrentPassword) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if len(req.NewPassword) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	newHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not hash password")
	}
	admin.PasswordHash = newHash
	if err := h.DB.WithContext(c.Request().Context()).Save(admin).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Orders.ListOrders(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *AdminHandler) GetOrder(c echo.Context) error {
	order, err := h.Orders.GetOrderWithItems(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, order)
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.SetStatus(c.Request().Context(), c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		return checkoutError(err)
	}
	return c.JSON(http.StatusOK, order)
}
