package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	identityuc "loanverse/internal/usecase/identity"
	"loanverse/internal/usecase/marketplace"
)

type AdminHandler struct {
	users  *identityuc.Usecase
	market *marketplace.Usecase
}

func NewAdminHandler(users *identityuc.Usecase, market *marketplace.Usecase) *AdminHandler {
	return &AdminHandler{users: users, market: market}
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.users.Users(c.Request().Context()))
}

type addUserReq struct {
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=Borrower Lender Admin Analyst"`
	Password string `json:"password" validate:"required"`
}

func (h *AdminHandler) AddUser(c echo.Context) error {
	var req addUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	usr, err := h.users.AddUser(c.Request().Context(), req.Name, req.Role, req.Password)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, usr)
}

type updateUserReq struct {
	Role     string `json:"role" validate:"required,oneof=Borrower Lender Admin Analyst"`
	Password string `json:"password"` // empty keeps the current password
}

func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	usr, err := h.users.UpdateUser(c.Request().Context(), c.Param("name"), req.Role, req.Password)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, usr)
}

func (h *AdminHandler) RemoveUser(c echo.Context) error {
	if err := h.users.RemoveUser(c.Request().Context(), c.Param("name")); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearLedger wipes every offer, request, and payment schedule.
func (h *AdminHandler) ClearLedger(c echo.Context) error {
	if err := h.market.ClearLedger(c.Request().Context()); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
