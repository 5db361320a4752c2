package repository

import (
	"context"
	"errors"

	"munaybol/models"

	"gorm.io/gorm"
)

// ActiveReservationsOfRoom keeps active reservations of one room
func ActiveReservationsOfRoom(room string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("num_habitacion = ? AND estado = ?", room, models.Active)
	}
}

// IntersectingWindow keeps reservations whose closed interval meets [from, to]
func IntersectingWindow(from, to models.Date) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("fecha_reserva <= ? AND fecha_caducidad >= ?", to, from)
	}
}

// ExcludingReservation drops one reservation from the result, used when re-checking itself
func ExcludingReservation(id uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if id == 0 {
			return db
		}
		return db.Where("id_reserva <> ?", id)
	}
}

// ActiveReservationsInWindow returns the room's active reservations meeting the window,
// ordered by check-in ascending
func ActiveReservationsInWindow(ctx context.Context, db *gorm.DB, room string, from, to models.Date) ([]models.Reservation, error) {
	var out []models.Reservation
	err := db.WithContext(ctx).
		Scopes(ActiveReservationsOfRoom(room), IntersectingWindow(from, to)).
		Order("fecha_reserva ASC").
		Order("id_reserva ASC").
		Find(&out).Error
	return out, err
}

// FindOverlap returns the first active reservation of room overlapping iv, ignoring
// excludeID, or nil when the interval is free
func FindOverlap(ctx context.Context, db *gorm.DB, room string, iv models.Interval, excludeID uint) (*models.Reservation, error) {
	var existing models.Reservation
	err := db.WithContext(ctx).
		Scopes(ActiveReservationsOfRoom(room), IntersectingWindow(iv.Start, iv.End), ExcludingReservation(excludeID)).
		Order("fecha_reserva ASC").
		Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// LockRoom loads a room and, where supported, holds its row lock for the transaction
func LockRoom(ctx context.Context, tx *gorm.DB, num string) (*models.Room, error) {
	var room models.Room
	err := ForUpdate(tx.WithContext(ctx)).Where("num = ?", num).Take(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ReservationsStartingOn returns active reservations whose check-in is day
func ReservationsStartingOn(ctx context.Context, db *gorm.DB, day models.Date) ([]models.Reservation, error) {
	var out []models.Reservation
	err := db.WithContext(ctx).
		Where("estado = ? AND fecha_reserva = ?", models.Active, day).
		Find(&out).Error
	return out, err
}
