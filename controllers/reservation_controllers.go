package controllers

import (
	"munaybol/dto"
	"munaybol/middleware"
	"munaybol/models"
	"munaybol/response"
	"munaybol/services"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{reservations: reservations}
}

func reservationInput(in dto.ReservationInput) services.ReservationInput {
	return services.ReservationInput{
		FechaReserva:   dto.ParseDate(in.FechaReserva),
		FechaCaducidad: dto.ParseDate(in.FechaCaducidad),
		NumHabitacion:  in.NumHabitacion,
		CodigoHotel:    in.CodigoHotel,
		IDPago:         in.IDPago,
		IDPaquete:      in.IDPaquete,
		IDUsuario:      in.IDUsuario,
		Estado:         in.Estado,
	}
}

// List godoc
// @Summary  Reservas del usuario (todas para superadmin)
// @Tags     reservas
// @Security BearerAuth
// @Param    estado         query bool   false "Activa / cancelada"
// @Param    num_habitacion query string false "Habitación"
// @Param    id_usuario     query int    false "Usuario (solo superadmin)"
// @Success  200 {object} dto.PaginatedResponse[[]models.Reservation]
// @Router   /reservas/ [get]
func (r *ReservationController) List(c *gin.Context) {
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	items, total, err := r.reservations.List(c.Request.Context(), middleware.Actor(c), services.ReservationFilter{
		Estado:        dto.QueryBool(c, "estado"),
		NumHabitacion: c.Query("num_habitacion"),
		IDUsuario:     dto.QueryUint(c, "id_usuario"),
		Page:          page.Page,
		Limit:         page.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, items, page, total)
}

// Create godoc
// @Summary  Crear reserva
// @Tags     reservas
// @Security BearerAuth
// @Param    body body dto.ReservationInput true "Reserva"
// @Success  201 {object} response.Response{data=models.Reservation}
// @Failure  400 {object} response.Response
// @Router   /reservas/ [post]
func (r *ReservationController) Create(c *gin.Context) {
	var in dto.ReservationInput
	if !bindJSON(c, &in) {
		return
	}
	reservation, err := r.reservations.Create(c.Request.Context(), middleware.Actor(c), reservationInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, reservation)
}

func (r *ReservationController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reservation, err := r.reservations.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, reservation)
}

// Update serves both PUT and PATCH; absent fields are left untouched
func (r *ReservationController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in dto.ReservationInput
	if !bindJSON(c, &in) {
		return
	}
	reservation, err := r.reservations.Update(c.Request.Context(), middleware.Actor(c), id, reservationInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, reservation)
}

// Cancel godoc
// @Summary  Cancelar reserva (idempotente)
// @Tags     reservas
// @Security BearerAuth
// @Param    id path int true "ID"
// @Success  200 {object} response.Response{data=dto.ReservationActionResponse}
// @Router   /reservas/{id}/cancelar/ [post]
func (r *ReservationController) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reservation, changed, err := r.reservations.Cancel(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	msg := "Reserva cancelada correctamente"
	if !changed {
		msg = "La reserva ya estaba cancelada"
	}
	actionResult(c, msg, reservation)
}

// Reactivate godoc
// @Summary  Reactivar reserva cancelada
// @Tags     reservas
// @Security BearerAuth
// @Param    id path int true "ID"
// @Success  200 {object} response.Response{data=dto.ReservationActionResponse}
// @Failure  400 {object} response.Response
// @Router   /reservas/{id}/reactivar/ [post]
func (r *ReservationController) Reactivate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reservation, changed, err := r.reservations.Reactivate(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	msg := "Reserva reactivada correctamente"
	if !changed {
		msg = "La reserva ya estaba activa"
	}
	actionResult(c, msg, reservation)
}

func actionResult(c *gin.Context, msg string, reservation *models.Reservation) {
	response.SuccessMessage(c, msg, dto.ReservationActionResponse{Message: msg, Reserva: reservation})
}
