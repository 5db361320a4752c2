package builders

import (
	"munaybol/models"
)

// ReservationBuilder assembles a reservation step by step
type ReservationBuilder struct {
	reservation *models.Reservation
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		reservation: &models.Reservation{Estado: models.Active},
	}
}

// FromExisting starts from a copy of r, used for updates
func FromExisting(r models.Reservation) *ReservationBuilder {
	return &ReservationBuilder{reservation: &r}
}

// ForRoom sets room and its hotel
func (b *ReservationBuilder) ForRoom(room *models.Room) *ReservationBuilder {
	b.reservation.NumHabitacion = room.Num
	b.reservation.CodigoHotel = room.CodigoHotel
	return b
}

func (b *ReservationBuilder) WithDates(checkIn, checkOut models.Date) *ReservationBuilder {
	b.reservation.FechaReserva = checkIn
	b.reservation.FechaCaducidad = checkOut
	return b
}

func (b *ReservationBuilder) WithCheckIn(checkIn models.Date) *ReservationBuilder {
	b.reservation.FechaReserva = checkIn
	return b
}

func (b *ReservationBuilder) WithCheckOut(checkOut models.Date) *ReservationBuilder {
	b.reservation.FechaCaducidad = checkOut
	return b
}

func (b *ReservationBuilder) OwnedBy(userID uint) *ReservationBuilder {
	b.reservation.IDUsuario = userID
	return b
}

func (b *ReservationBuilder) WithPayment(paymentID *uint) *ReservationBuilder {
	b.reservation.IDPago = paymentID
	return b
}

func (b *ReservationBuilder) WithPackage(packageID *uint) *ReservationBuilder {
	b.reservation.IDPaquete = packageID
	return b
}

func (b *ReservationBuilder) WithLifecycle(l models.Lifecycle) *ReservationBuilder {
	b.reservation.Estado = l
	return b
}

func (b *ReservationBuilder) Build() *models.Reservation {
	return b.reservation
}
