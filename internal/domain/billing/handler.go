package billing

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/invoices", h.List)
	e.POST("/invoices", h.Create)
}

func (h *Handler) List(c echo.Context) error {
	ident, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	invs, total, err := h.svc.List(c.Request().Context(), ident, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(invs, total, pg.Limit, pg.Offset))
}

func (h *Handler) Create(c echo.Context) error {
	ident, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	var inv Invoice
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.Create(c.Request().Context(), ident, &inv)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, created)
}
