package controllers

import (
	"munaybol/dto"
	"munaybol/middleware"
	"munaybol/response"
	"munaybol/services"

	"github.com/gin-gonic/gin"
)

func placeInput(in dto.PlaceInput) services.PlaceInput {
	return services.PlaceInput{
		Nombre:       in.Nombre,
		Ubicacion:    in.Ubicacion,
		Departamento: in.Departamento,
		Tipo:         in.Tipo,
		Horario:      in.Horario,
		Descripcion:  in.Descripcion,
		URLImage:     in.URLImage,
		Estado:       in.Estado,
	}
}

func (h *CatalogController) ListPlaces(c *gin.Context) {
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	places, total, err := h.catalog.ListPlaces(c.Request.Context(), middleware.Actor(c), catalogFilter(c, page))
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, places, page, total)
}

func (h *CatalogController) GetPlace(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	place, err := h.catalog.GetPlace(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, place)
}

func (h *CatalogController) CreatePlace(c *gin.Context) {
	var in dto.PlaceInput
	if !bindJSON(c, &in) {
		return
	}
	place, err := h.catalog.CreatePlace(c.Request.Context(), middleware.Actor(c), placeInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, place)
}

func (h *CatalogController) UpdatePlace(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in dto.PlaceInput
	if !bindJSON(c, &in) {
		return
	}
	place, err := h.catalog.UpdatePlace(c.Request.Context(), middleware.Actor(c), id, placeInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, place)
}

func (h *CatalogController) DeletePlace(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DisablePlace(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMessage(c, "Lugar turístico desactivado correctamente", nil)
}

func packageInput(in dto.PackageInput) services.PackageInput {
	return services.PackageInput{
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		Precio:      in.Precio,
		IDHotel:     in.IDHotel,
		IDLugar:     in.IDLugar,
		Estado:      in.Estado,
	}
}

func (h *CatalogController) ListPackages(c *gin.Context) {
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	packages, total, err := h.catalog.ListPackages(c.Request.Context(), middleware.Actor(c), catalogFilter(c, page))
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, packages, page, total)
}

func (h *CatalogController) GetPackage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	pkg, err := h.catalog.GetPackage(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, pkg)
}

func (h *CatalogController) CreatePackage(c *gin.Context) {
	var in dto.PackageInput
	if !bindJSON(c, &in) {
		return
	}
	pkg, err := h.catalog.CreatePackage(c.Request.Context(), middleware.Actor(c), packageInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, pkg)
}

func (h *CatalogController) UpdatePackage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in dto.PackageInput
	if !bindJSON(c, &in) {
		return
	}
	pkg, err := h.catalog.UpdatePackage(c.Request.Context(), middleware.Actor(c), id, packageInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, pkg)
}

func (h *CatalogController) DeletePackage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DisablePackage(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMessage(c, "Paquete desactivado correctamente", nil)
}
