package controllers

import (
	"munaybol/dto"
	"munaybol/middleware"
	"munaybol/response"
	"munaybol/services"

	"github.com/gin-gonic/gin"
)

// CatalogController serves hotels, places and packages
type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func catalogFilter(c *gin.Context, page dto.PageQuery) services.CatalogFilter {
	return services.CatalogFilter{
		Departamento: c.Query("departamento"),
		Q:            c.Query("q"),
		Estado:       dto.QueryBool(c, "estado"),
		Page:         page.Page,
		Limit:        page.Limit,
	}
}

func hotelInput(in dto.HotelInput) services.HotelInput {
	return services.HotelInput{
		Nombre:         in.Nombre,
		Ubicacion:      in.Ubicacion,
		Departamento:   in.Departamento,
		Calificacion:   in.Calificacion,
		URL:            in.URL,
		URLImagenHotel: in.URLImagenHotel,
		Estado:         in.Estado,
	}
}

// ListHotels godoc
// @Summary  Lista de hoteles
// @Tags     hoteles
// @Param    departamento query string false "Departamento"
// @Param    q            query string false "Nombre contiene"
// @Param    page         query int    false "Página"
// @Param    limit        query int    false "Tamaño de página"
// @Success  200 {object} dto.PaginatedResponse[[]models.Hotel]
// @Router   /hoteles/ [get]
func (h *CatalogController) ListHotels(c *gin.Context) {
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	hotels, total, err := h.catalog.ListHotels(c.Request.Context(), middleware.Actor(c), catalogFilter(c, page))
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, hotels, page, total)
}

func (h *CatalogController) GetHotel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	hotel, err := h.catalog.GetHotel(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, hotel)
}

func (h *CatalogController) CreateHotel(c *gin.Context) {
	var in dto.HotelInput
	if !bindJSON(c, &in) {
		return
	}
	hotel, err := h.catalog.CreateHotel(c.Request.Context(), middleware.Actor(c), hotelInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, hotel)
}

func (h *CatalogController) UpdateHotel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in dto.HotelInput
	if !bindJSON(c, &in) {
		return
	}
	hotel, err := h.catalog.UpdateHotel(c.Request.Context(), middleware.Actor(c), id, hotelInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, hotel)
}

func (h *CatalogController) DeleteHotel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DisableHotel(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMessage(c, "Hotel desactivado correctamente", dto.MessageResponse{Message: "Hotel desactivado correctamente"})
}
