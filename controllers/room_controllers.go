package controllers

import (
	"munaybol/dto"
	"munaybol/middleware"
	"munaybol/response"
	"munaybol/services"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	catalog      *services.CatalogService
	availability *services.AvailabilityService
}

func NewRoomController(catalog *services.CatalogService, availability *services.AvailabilityService) *RoomController {
	return &RoomController{catalog: catalog, availability: availability}
}

func roomInput(in dto.RoomInput) services.RoomInput {
	return services.RoomInput{
		Num:             in.Num,
		Caracteristicas: in.Caracteristicas,
		Precio:          in.Precio,
		CantHuespedes:   in.CantHuespedes,
		CodigoHotel:     in.CodigoHotel,
		Disponible:      in.Disponible,
	}
}

func (r *RoomController) List(c *gin.Context) {
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	rooms, total, err := r.catalog.ListRooms(c.Request.Context(), middleware.Actor(c), services.RoomFilter{
		CodigoHotel: dto.QueryUint(c, "codigo_hotel"),
		Disponible:  dto.QueryBool(c, "disponible"),
		Page:        page.Page,
		Limit:       page.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, rooms, page, total)
}

func (r *RoomController) Get(c *gin.Context) {
	room, err := r.catalog.GetRoom(c.Request.Context(), middleware.Actor(c), c.Param("num"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, room)
}

func (r *RoomController) Create(c *gin.Context) {
	var in dto.RoomInput
	if !bindJSON(c, &in) {
		return
	}
	room, err := r.catalog.CreateRoom(c.Request.Context(), middleware.Actor(c), roomInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, room)
}

func (r *RoomController) Update(c *gin.Context) {
	var in dto.RoomInput
	if !bindJSON(c, &in) {
		return
	}
	room, err := r.catalog.UpdateRoom(c.Request.Context(), middleware.Actor(c), c.Param("num"), roomInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, room)
}

func (r *RoomController) Delete(c *gin.Context) {
	if err := r.catalog.DisableRoom(c.Request.Context(), middleware.Actor(c), c.Param("num")); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMessage(c, "Habitación desactivada correctamente", dto.MessageResponse{Message: "Habitación desactivada correctamente"})
}

// Availability godoc
// @Summary  Disponibilidad de una habitación
// @Tags     habitaciones
// @Param    num   path  string true  "Número de habitación"
// @Param    desde query string false "YYYY-MM-DD, por defecto hoy"
// @Param    hasta query string false "YYYY-MM-DD, por defecto desde + 90 días"
// @Success  200 {object} response.Response{data=services.Availability}
// @Router   /habitaciones/{num}/disponibilidad/ [get]
func (r *RoomController) Availability(c *gin.Context) {
	out, err := r.availability.Query(c.Request.Context(), middleware.Actor(c), c.Param("num"), c.Query("desde"), c.Query("hasta"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, out)
}
