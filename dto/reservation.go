package dto

import "munaybol/models"

type ReservationInput struct {
	FechaReserva   *string `json:"fecha_reserva" binding:"omitempty,fecha"`
	FechaCaducidad *string `json:"fecha_caducidad" binding:"omitempty,fecha"`
	NumHabitacion  *string `json:"num_habitacion" binding:"omitempty,max=20"`
	CodigoHotel    *uint   `json:"codigo_hotel"`
	IDPago         *uint   `json:"id_pago"`
	IDPaquete      *uint   `json:"id_paquete"`
	IDUsuario      *uint   `json:"id_usuario"`
	Estado         *bool   `json:"estado"`
}

// ParseDate converts an optional YYYY-MM-DD field already checked by the "fecha" tag
func ParseDate(v *string) *models.Date {
	if v == nil || *v == "" {
		return nil
	}
	d, err := models.ParseDate(*v)
	if err != nil {
		return nil
	}
	return &d
}

type ReservationActionResponse struct {
	Message string              `json:"message"`
	Reserva *models.Reservation `json:"reserva"`
}
