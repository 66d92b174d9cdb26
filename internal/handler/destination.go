package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/safarnama/tourism-booking/internal/model"
	"github.com/safarnama/tourism-booking/internal/repository"
)

// DestinationHandler serves the destination catalogue. Reads are public
// (and cacheable); writes are mounted behind RequireRole("admin").
type DestinationHandler struct {
	Repo *repository.DestinationRepo
}

func NewDestinationHandler(r *repository.DestinationRepo) *DestinationHandler {
	return &DestinationHandler{Repo: r}
}

type destinationReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
}

type destinationResp struct {
	ID          uint64 `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
}

func toDestinationResp(d *model.Destination) destinationResp {
	return destinationResp{ID: d.ID, Name: d.Name, Description: d.Description, Price: d.Price, Image: d.Image}
}

// List handles GET /api/destinations.
func (h *DestinationHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	items, err := h.Repo.List(ctx)
	if err != nil {
		return respondDomainErr(c, err)
	}
	out := make([]destinationResp, 0, len(items))
	for i := range items {
		out = append(out, toDestinationResp(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetByName handles GET /api/destination/:name, case-insensitively.
func (h *DestinationHandler) GetByName(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "destination name required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	d, err := h.Repo.GetByName(ctx, name)
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, toDestinationResp(d))
}

// Create handles POST /api/destinations (admin).
func (h *DestinationHandler) Create(c echo.Context) error {
	var req destinationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.Description) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and description required"})
	}
	if req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be positive"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	d := &model.Destination{Name: req.Name, Description: req.Description, Price: req.Price, Image: req.Image}
	if err := h.Repo.Create(ctx, d); err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, toDestinationResp(d))
}

// Update handles PUT /api/destinations/:id (admin).
func (h *DestinationHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination id"})
	}
	var req destinationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.Description) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and description required"})
	}
	if req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be positive"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	d := &model.Destination{ID: id, Name: req.Name, Description: req.Description, Price: req.Price, Image: req.Image}
	if err := h.Repo.Update(ctx, d); err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, toDestinationResp(d))
}

// Delete handles DELETE /api/destinations/:id (admin).
func (h *DestinationHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		return respondDomainErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
