package identity

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct {
	svc    *Service
	tokens *auth.TokenIssuer
}

func NewHandler(svc *Service, tokens *auth.TokenIssuer) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/token/refresh", h.Refresh)
	e.GET("/auth/me", h.Me)
	e.GET("/doctors", h.ListDoctors)
	e.GET("/patients", h.ListPatients)
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, a)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ident, err := h.svc.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	pair, err := h.tokens.Issue(ident)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pair)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (h *Handler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ident, err := h.tokens.Verify(req.Refresh, auth.TokenTypeRefresh)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired refresh token")
	}
	access, err := h.tokens.IssueAccess(ident)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"access": access})
}

func (h *Handler) Me(c echo.Context) error {
	ident, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	a, err := h.svc.Me(c.Request().Context(), ident)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":       a.ID,
		"username": a.Username,
		"email":    a.Email,
		"role":     a.Role,
	})
}

func (h *Handler) ListDoctors(c echo.Context) error {
	ident, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	doctors, total, err := h.svc.ListDoctors(c.Request().Context(), ident, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(doctors, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListPatients(c echo.Context) error {
	ident, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	patients, total, err := h.svc.ListPatients(c.Request().Context(), ident, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, pg.Limit, pg.Offset))
}
