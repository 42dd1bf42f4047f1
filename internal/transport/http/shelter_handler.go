package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shelterhub/backend/internal/apperr"
	"github.com/shelterhub/backend/internal/domain"
	"github.com/shelterhub/backend/internal/service"
	"github.com/shelterhub/backend/internal/util"
)

type ShelterHandler struct {
	shelters *service.ShelterService
}

func RegisterShelters(e *echo.Echo, tokens *util.JWTManager, shelters *service.ShelterService) {
	handler := &ShelterHandler{shelters: shelters}

	g := e.Group("/api/shelters", RequireAuth(tokens))
	g.GET("", handler.list)
	g.GET("/stats/general", handler.stats, RequireRoles(domain.RoleAdministrator))
	g.GET("/owner/:ownerId", handler.listByOwner)
	g.GET("/:id", handler.get)
	g.POST("/create", handler.create)
	g.PUT("/:id", handler.update)
	g.DELETE("/:id", handler.remove)
}

func (h *ShelterHandler) list(c echo.Context) error {
	shelters, err := h.shelters.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "shelters retrieved successfully", shelters)
}

func (h *ShelterHandler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.BadRequest("invalid shelter id")
	}
	shelter, err := h.shelters.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "shelter retrieved successfully", shelter)
}

func (h *ShelterHandler) listByOwner(c echo.Context) error {
	ownerID, err := uuid.Parse(c.Param("ownerId"))
	if err != nil {
		return apperr.BadRequest("invalid owner id")
	}
	shelters, err := h.shelters.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "shelters retrieved successfully", shelters)
}

func (h *ShelterHandler) create(c echo.Context) error {
	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	shelter, err := h.shelters.Create(c.Request().Context(), raw)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "shelter created successfully", shelter)
}

func (h *ShelterHandler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.BadRequest("invalid shelter id")
	}
	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	claims, _ := CurrentClaims(c)
	shelter, err := h.shelters.Update(c.Request().Context(), claims, id, raw)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "shelter updated successfully", shelter)
}

func (h *ShelterHandler) remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.BadRequest("invalid shelter id")
	}
	claims, _ := CurrentClaims(c)
	if err := h.shelters.Delete(c.Request().Context(), claims, id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "shelter deleted successfully", nil)
}

func (h *ShelterHandler) stats(c echo.Context) error {
	stats, err := h.shelters.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "statistics retrieved successfully", stats)
}
