package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shelterhub/backend/internal/apperr"
	"github.com/shelterhub/backend/internal/domain"
	"github.com/shelterhub/backend/internal/media"
	"github.com/shelterhub/backend/internal/service"
	"github.com/shelterhub/backend/internal/util"
)

type AccountHandler struct {
	accounts *service.AccountService
}

func RegisterAccounts(e *echo.Echo, tokens *util.JWTManager, accounts *service.AccountService) {
	handler := &AccountHandler{accounts: accounts}

	g := e.Group("/api/accounts", RequireAuth(tokens))
	g.GET("", handler.list)
	g.GET("/stats", handler.stats, RequireRoles(domain.RoleAdministrator))
	g.GET("/:id", handler.get)
	g.PUT("/:id", handler.update, RequireOwnerOrAdmin("id"))
	g.PUT("/:id/role", handler.changeRole, RequireRoles(domain.RoleAdministrator))
	g.DELETE("/:id", handler.remove, RequireRoles(domain.RoleAdministrator))
	g.POST("/:id/upload", handler.uploadImage, RequireOwnerOrAdmin("id"))
}

func (h *AccountHandler) list(c echo.Context) error {
	accounts, err := h.accounts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "accounts retrieved successfully", accounts)
}

func (h *AccountHandler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.BadRequest("invalid account id")
	}
	account, err := h.accounts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "account retrieved successfully", account)
}

func (h *AccountHandler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.BadRequest("invalid account id")
	}
	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	claims, _ := CurrentClaims(c)
	account, err := h.accounts.Update(c.Request().Context(), claims, id, raw)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "account updated successfully", account)
}

func (h *AccountHandler) changeRole(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.BadRequest("invalid account id")
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if req.Role == "" {
		return apperr.BadRequest("role is required")
	}

	account, err := h.accounts.ChangeRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "role updated successfully", account)
}

func (h *AccountHandler) remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.BadRequest("invalid account id")
	}
	if err := h.accounts.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "account deleted successfully", nil)
}

func (h *AccountHandler) stats(c echo.Context) error {
	stats, err := h.accounts.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "statistics retrieved successfully", stats)
}

func (h *AccountHandler) uploadImage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.BadRequest("invalid account id")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return apperr.BadRequest("no file provided, use multipart field \"image\"")
	}
	src, err := file.Open()
	if err != nil {
		return apperr.BadRequest("unable to read uploaded file")
	}
	defer src.Close()

	url, err := h.accounts.UploadImage(c.Request().Context(), id, media.Upload{
		Reader:      src,
		Size:        file.Size,
		FileName:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "image uploaded successfully", echo.Map{"image_url": url})
}
