package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	identityuc "loanverse/internal/usecase/identity"
)

type AuthHandler struct{ uc *identityuc.Usecase }

func NewAuthHandler(uc *identityuc.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=Borrower Lender Admin Analyst"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	res, err := h.uc.Register(c.Request().Context(), req.Name, req.Role, req.Password)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

type loginReq struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	res, err := h.uc.Login(c.Request().Context(), req.Name, req.Password)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
