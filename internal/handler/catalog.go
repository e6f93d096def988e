package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/duskbar/table-reservation/internal/catalog"
)

// CatalogHandler exposes the static slot and table-type definitions so
// booking forms can render without hard-coding the venue layout.
type CatalogHandler struct {
	Catalog *catalog.Catalog
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	if cat == nil {
		panic("nil catalog passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: cat}
}

// GetSlots handles GET /v1/slots.
func (h *CatalogHandler) GetSlots(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Catalog.Slots()})
}

// GetTableTypes handles GET /v1/table-types.
func (h *CatalogHandler) GetTableTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Catalog.TableTypes()})
}
