package commands

import (
	"munaybol/models"

	"gorm.io/gorm"
)

// ReservationCommand is a write executed inside the caller's transaction
type ReservationCommand interface {
	Execute() error
}

// CreateReservationCommand inserts a new reservation
type CreateReservationCommand struct {
	reservation *models.Reservation
	db          *gorm.DB
}

func NewCreateReservationCommand(db *gorm.DB, reservation *models.Reservation) *CreateReservationCommand {
	return &CreateReservationCommand{
		reservation: reservation,
		db:          db,
	}
}

func (c *CreateReservationCommand) Execute() error {
	return c.db.Create(c.reservation).Error
}

// UpdateReservationCommand saves every column of a reservation
type UpdateReservationCommand struct {
	reservation *models.Reservation
	db          *gorm.DB
}

func NewUpdateReservationCommand(db *gorm.DB, reservation *models.Reservation) *UpdateReservationCommand {
	return &UpdateReservationCommand{
		reservation: reservation,
		db:          db,
	}
}

func (c *UpdateReservationCommand) Execute() error {
	return c.db.Save(c.reservation).Error
}

// SetReservationStatusCommand writes only the estado column
type SetReservationStatusCommand struct {
	reservation *models.Reservation
	db          *gorm.DB
}

func NewSetReservationStatusCommand(db *gorm.DB, reservation *models.Reservation) *SetReservationStatusCommand {
	return &SetReservationStatusCommand{
		reservation: reservation,
		db:          db,
	}
}

func (c *SetReservationStatusCommand) Execute() error {
	return c.db.Model(&models.Reservation{}).
		Where("id_reserva = ?", c.reservation.IDReserva).
		Update("estado", c.reservation.Estado).Error
}
