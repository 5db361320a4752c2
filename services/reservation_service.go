package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"munaybol/builders"
	"munaybol/commands"
	"munaybol/errors"
	"munaybol/models"
	"munaybol/permissions"
	"munaybol/repository"
	"munaybol/services/logger"
	"munaybol/validator"

	"gorm.io/gorm"
)

const (
	msgOverlap       = "La habitación ya está reservada en el rango de fechas solicitado."
	msgHotelMismatch = "La habitación no pertenece al hotel especificado."
)

// Notifier delivers user notifications and admin alerts. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, userID uint, title, message, link string) (*models.Notification, error)
	AlertAdmins(ctx context.Context, text string)
}

// ReservationInput carries the fields of a create or update request; nil means absent
type ReservationInput struct {
	FechaReserva   *models.Date
	FechaCaducidad *models.Date
	NumHabitacion  *string
	CodigoHotel    *uint
	IDPago         *uint
	IDPaquete      *uint
	IDUsuario      *uint
	Estado         *bool
}

type ReservationFilter struct {
	Estado        *bool
	NumHabitacion string
	IDUsuario     *uint
	Page          int
	Limit         int
}

type ReservationServiceOptions struct {
	DB           *gorm.DB
	Logger       logger.Logger
	Availability *AvailabilityService
	Notifier     Notifier
}

// ReservationService runs the reservation lifecycle. Every write that can create an
// overlap is serialized per room.
type ReservationService struct {
	db           *gorm.DB
	logger       logger.Logger
	availability *AvailabilityService
	notifier     Notifier
	locks        *keyedMutex
}

func NewReservationService(opts ReservationServiceOptions) *ReservationService {
	return &ReservationService{
		db:           opts.DB,
		logger:       opts.Logger,
		availability: opts.Availability,
		notifier:     opts.Notifier,
		locks:        newKeyedMutex(),
	}
}

func reservationLink(id uint) string {
	return fmt.Sprintf("/reservas/%d", id)
}

// Create books a room for the actor
func (s *ReservationService) Create(ctx context.Context, actor permissions.Actor, in ReservationInput) (*models.Reservation, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized()
	}
	if !permissions.Can(actor, permissions.Create, permissions.Collection(permissions.Reservation)) {
		return nil, errors.Forbidden()
	}
	if in.NumHabitacion == nil || strings.TrimSpace(*in.NumHabitacion) == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "El campo num_habitacion es obligatorio.", nil)
	}
	if in.FechaReserva == nil || in.FechaCaducidad == nil {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "Las fechas fecha_reserva y fecha_caducidad son obligatorias.", nil)
	}
	if err := validator.ValidateReservationDates(*in.FechaReserva, *in.FechaCaducidad); err != nil {
		return nil, err
	}

	owner := actor.UserID
	if actor.IsSuperAdmin() && in.IDUsuario != nil {
		owner = *in.IDUsuario
	}
	num := strings.TrimSpace(*in.NumHabitacion)

	unlock := s.locks.Lock(num)
	defer unlock()

	var created *models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := s.lockAvailableRoom(ctx, tx, num)
		if err != nil {
			return err
		}
		if in.CodigoHotel != nil && *in.CodigoHotel != room.CodigoHotel {
			return errors.NewAppError(errors.ErrCodeRoomHotelMismatch, msgHotelMismatch, nil)
		}
		if err := s.checkReferences(ctx, tx, actor, owner, in.IDPago, in.IDPaquete, in.IDUsuario != nil); err != nil {
			return err
		}

		reservation := builders.NewReservationBuilder().
			ForRoom(room).
			WithDates(*in.FechaReserva, *in.FechaCaducidad).
			OwnedBy(owner).
			WithPayment(in.IDPago).
			WithPackage(in.IDPaquete).
			Build()

		if err := s.ensureNoOverlap(ctx, tx, reservation, msgOverlap); err != nil {
			return err
		}
		if err := commands.NewCreateReservationCommand(tx, reservation).Execute(); err != nil {
			return errors.DB(err)
		}
		created = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reserva %d creada: habitación %s [%s, %s] usuario %d",
		created.IDReserva, created.NumHabitacion, created.FechaReserva, created.FechaCaducidad, created.IDUsuario)
	s.availability.Invalidate(ctx, created.NumHabitacion)
	s.emit(ctx, created, "Reserva confirmada",
		fmt.Sprintf("Tu reserva de la habitación %s del %s al %s fue registrada.",
			created.NumHabitacion, created.FechaReserva, created.FechaCaducidad))
	return created, nil
}

// Get returns a reservation visible to actor; other users' rows are reported as missing
func (s *ReservationService) Get(ctx context.Context, actor permissions.Actor, id uint) (*models.Reservation, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized()
	}
	r, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !permissions.Can(actor, permissions.Read, permissions.Owned(permissions.Reservation, r.IDUsuario)) {
		return nil, errors.NotFound("Reserva no encontrada.")
	}
	return r, nil
}

// List returns the reservations visible to actor
func (s *ReservationService) List(ctx context.Context, actor permissions.Actor, f ReservationFilter) ([]models.Reservation, int64, error) {
	if !actor.Authenticated() {
		return nil, 0, errors.Unauthorized()
	}
	if !permissions.Can(actor, permissions.List, permissions.Collection(permissions.Reservation)) {
		return nil, 0, errors.Forbidden()
	}

	q := s.db.WithContext(ctx).Model(&models.Reservation{}).
		Scopes(
			repository.OwnedBy(actor, "id_usuario"),
			repository.LifecycleFilter(actor, models.Reservation{}, f.Estado),
		)
	if !actor.IsSuperAdmin() && f.Estado != nil {
		q = q.Where("estado = ?", models.Lifecycle(*f.Estado))
	}
	if f.NumHabitacion != "" {
		q = q.Where("num_habitacion = ?", f.NumHabitacion)
	}
	if actor.IsSuperAdmin() && f.IDUsuario != nil {
		q = q.Where("id_usuario = ?", *f.IDUsuario)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	var out []models.Reservation
	if err := q.Scopes(repository.Paginate(f.Page, f.Limit)).
		Order("fecha_reserva DESC").Order("id_reserva DESC").
		Find(&out).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	return out, total, nil
}

// Cancel soft-deletes a reservation. Cancelling twice is a successful no-op.
func (s *ReservationService) Cancel(ctx context.Context, actor permissions.Actor, id uint) (*models.Reservation, bool, error) {
	if !actor.Authenticated() {
		return nil, false, errors.Unauthorized()
	}
	current, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, false, err
	}
	if !permissions.Can(actor, permissions.Cancel, permissions.Owned(permissions.Reservation, current.IDUsuario)) {
		return nil, false, errors.Forbidden()
	}

	unlock := s.locks.Lock(current.NumHabitacion)
	defer unlock()

	var (
		result  *models.Reservation
		changed bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.load(ctx, repository.ForUpdate(tx), id)
		if err != nil {
			return err
		}
		changed = models.GetReservationState(r).Cancel(r)
		if changed {
			if err := commands.NewSetReservationStatusCommand(tx, r).Execute(); err != nil {
				return errors.DB(err)
			}
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return result, false, nil
	}

	s.logger.Info("Reserva %d cancelada por usuario %d", result.IDReserva, actor.UserID)
	s.availability.Invalidate(ctx, result.NumHabitacion)
	s.emit(ctx, result, "Reserva cancelada",
		fmt.Sprintf("Tu reserva de la habitación %s del %s al %s fue cancelada.",
			result.NumHabitacion, result.FechaReserva, result.FechaCaducidad))
	return result, true, nil
}

// Reactivate restores a cancelled reservation if its interval is still free
func (s *ReservationService) Reactivate(ctx context.Context, actor permissions.Actor, id uint) (*models.Reservation, bool, error) {
	if !actor.Authenticated() {
		return nil, false, errors.Unauthorized()
	}
	current, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, false, err
	}
	if !permissions.Can(actor, permissions.Reactivate, permissions.Owned(permissions.Reservation, current.IDUsuario)) {
		return nil, false, errors.Forbidden()
	}

	unlock := s.locks.Lock(current.NumHabitacion)
	defer unlock()

	var (
		result  *models.Reservation
		changed bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.LockRoom(ctx, tx, current.NumHabitacion); err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.DB(err)
		}
		r, err := s.load(ctx, repository.ForUpdate(tx), id)
		if err != nil {
			return err
		}
		result = r
		if r.Estado.IsActive() {
			return nil
		}
		if err := s.ensureNoOverlap(ctx, tx, r,
			"No se puede reactivar: la habitación ya está reservada en el rango de fechas solicitado."); err != nil {
			return err
		}
		changed = models.GetReservationState(r).Reactivate(r)
		return commands.NewSetReservationStatusCommand(tx, r).Execute()
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, false, err
		}
		return nil, false, errors.DB(err)
	}
	if !changed {
		return result, false, nil
	}

	s.logger.Info("Reserva %d reactivada por usuario %d", result.IDReserva, actor.UserID)
	s.availability.Invalidate(ctx, result.NumHabitacion)
	s.emit(ctx, result, "Reserva reactivada",
		fmt.Sprintf("Tu reserva de la habitación %s del %s al %s fue reactivada.",
			result.NumHabitacion, result.FechaReserva, result.FechaCaducidad))
	return result, true, nil
}

// Update applies a partial or full update. Owners may only move their dates.
func (s *ReservationService) Update(ctx context.Context, actor permissions.Actor, id uint, in ReservationInput) (*models.Reservation, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized()
	}
	current, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !permissions.Can(actor, permissions.Update, permissions.Owned(permissions.Reservation, current.IDUsuario)) {
		return nil, errors.Forbidden()
	}

	changed := changedReservationFields(current, in)
	if restricted := permissions.RestrictedReservationFields(actor, changed); len(restricted) > 0 {
		return nil, errors.NewAppError(errors.ErrCodeRestrictedField,
			fmt.Sprintf("No tiene permiso para modificar: %s.", strings.Join(restricted, ", ")), nil)
	}
	if len(changed) == 0 {
		return current, nil
	}

	newRoom := current.NumHabitacion
	if in.NumHabitacion != nil {
		newRoom = strings.TrimSpace(*in.NumHabitacion)
	}

	unlock := s.locks.Lock(current.NumHabitacion, newRoom)
	defer unlock()

	var updated *models.Reservation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.load(ctx, repository.ForUpdate(tx), id)
		if err != nil {
			return err
		}

		b := builders.FromExisting(*r)
		if in.FechaReserva != nil {
			b.WithCheckIn(*in.FechaReserva)
		}
		if in.FechaCaducidad != nil {
			b.WithCheckOut(*in.FechaCaducidad)
		}
		next := b.Build()
		if err := validator.ValidateReservationDates(next.FechaReserva, next.FechaCaducidad); err != nil {
			return err
		}

		if newRoom != r.NumHabitacion || in.CodigoHotel != nil {
			room, err := s.lockAvailableRoom(ctx, tx, newRoom)
			if err != nil {
				return err
			}
			if in.CodigoHotel != nil && *in.CodigoHotel != room.CodigoHotel {
				return errors.NewAppError(errors.ErrCodeRoomHotelMismatch, msgHotelMismatch, nil)
			}
			next = builders.FromExisting(*next).ForRoom(room).Build()
		} else if _, err := repository.LockRoom(ctx, tx, r.NumHabitacion); err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.DB(err)
		}

		b = builders.FromExisting(*next)
		if in.IDUsuario != nil {
			b.OwnedBy(*in.IDUsuario)
		}
		if in.IDPago != nil {
			b.WithPayment(in.IDPago)
		}
		if in.IDPaquete != nil {
			b.WithPackage(in.IDPaquete)
		}
		if in.Estado != nil {
			b.WithLifecycle(models.Lifecycle(*in.Estado))
		}
		next = b.Build()
		if err := s.checkReferences(ctx, tx, actor, next.IDUsuario, in.IDPago, in.IDPaquete, in.IDUsuario != nil); err != nil {
			return err
		}

		if next.Estado.IsActive() {
			if err := s.ensureNoOverlap(ctx, tx, next, msgOverlap); err != nil {
				return err
			}
		}
		if err := commands.NewUpdateReservationCommand(tx, next).Execute(); err != nil {
			return errors.DB(err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reserva %d actualizada por usuario %d: %s", id, actor.UserID, strings.Join(changed, ","))
	s.availability.Invalidate(ctx, current.NumHabitacion, updated.NumHabitacion)
	s.emit(ctx, updated, "Reserva actualizada",
		fmt.Sprintf("Tu reserva de la habitación %s ahora es del %s al %s.",
			updated.NumHabitacion, updated.FechaReserva, updated.FechaCaducidad))
	return updated, nil
}

// SendCheckInReminders notifies owners whose stay starts on day
func (s *ReservationService) SendCheckInReminders(ctx context.Context, day models.Date) (int, error) {
	reservations, err := repository.ReservationsStartingOn(ctx, s.db, day)
	if err != nil {
		return 0, errors.DB(err)
	}
	for i := range reservations {
		r := &reservations[i]
		s.emit(ctx, r, "Recordatorio de check-in",
			fmt.Sprintf("Tu estadía en la habitación %s comienza el %s. ¡Buen viaje!", r.NumHabitacion, r.FechaReserva))
	}
	return len(reservations), nil
}

func (s *ReservationService) load(ctx context.Context, db *gorm.DB, id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := db.WithContext(ctx).Where("id_reserva = ?", id).Take(&r).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Reserva no encontrada.")
		}
		return nil, errors.DB(err)
	}
	return &r, nil
}

func (s *ReservationService) lockAvailableRoom(ctx context.Context, tx *gorm.DB, num string) (*models.Room, error) {
	room, err := repository.LockRoom(ctx, tx, num)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Validation(fmt.Sprintf("La habitación %s no existe.", num))
		}
		return nil, errors.DB(err)
	}
	if !room.Disponible.IsActive() {
		return nil, errors.NewAppError(errors.ErrCodeRoomUnavailable, "La habitación no está disponible.", nil)
	}
	return room, nil
}

func (s *ReservationService) ensureNoOverlap(ctx context.Context, tx *gorm.DB, r *models.Reservation, message string) error {
	existing, err := repository.FindOverlap(ctx, tx, r.NumHabitacion, r.Interval(), r.IDReserva)
	if err != nil {
		return errors.DB(err)
	}
	if existing != nil {
		return errors.NewAppError(errors.ErrCodeOverlap, message, nil)
	}
	return nil
}

// checkReferences verifies optional foreign keys. Non-admins may only attach their own payments.
func (s *ReservationService) checkReferences(ctx context.Context, tx *gorm.DB, actor permissions.Actor, owner uint, paymentID, packageID *uint, ownerGiven bool) error {
	if ownerGiven {
		var n int64
		if err := tx.WithContext(ctx).Model(&models.User{}).Where("id = ?", owner).Count(&n).Error; err != nil {
			return errors.DB(err)
		}
		if n == 0 {
			return errors.Validation("El usuario indicado no existe.")
		}
	}
	if paymentID != nil {
		var p models.Payment
		if err := tx.WithContext(ctx).Where("id_pago = ?", *paymentID).Take(&p).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Validation("El pago indicado no existe.")
			}
			return errors.DB(err)
		}
		if !actor.IsSuperAdmin() && p.IDUsuario != owner {
			return errors.Validation("El pago indicado no pertenece al usuario.")
		}
	}
	if packageID != nil {
		var n int64
		if err := tx.WithContext(ctx).Model(&models.TourPackage{}).
			Where("id_paquete = ? AND estado = ?", *packageID, models.Active).Count(&n).Error; err != nil {
			return errors.DB(err)
		}
		if n == 0 {
			return errors.Validation("El paquete indicado no existe.")
		}
	}
	return nil
}

func (s *ReservationService) emit(ctx context.Context, r *models.Reservation, title, message string) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, r.IDUsuario, title, message, reservationLink(r.IDReserva)); err != nil {
		s.logger.Error("notificación de reserva %d: %v", r.IDReserva, err)
	}
	s.notifier.AlertAdmins(ctx, fmt.Sprintf("%s: reserva #%d, habitación %s (%s → %s), usuario %d",
		title, r.IDReserva, r.NumHabitacion, r.FechaReserva, r.FechaCaducidad, r.IDUsuario))
}

// changedReservationFields lists the fields of in that differ from r
func changedReservationFields(r *models.Reservation, in ReservationInput) []string {
	var changed []string
	if in.FechaReserva != nil && !in.FechaReserva.Equal(r.FechaReserva) {
		changed = append(changed, "fecha_reserva")
	}
	if in.FechaCaducidad != nil && !in.FechaCaducidad.Equal(r.FechaCaducidad) {
		changed = append(changed, "fecha_caducidad")
	}
	if in.NumHabitacion != nil && strings.TrimSpace(*in.NumHabitacion) != r.NumHabitacion {
		changed = append(changed, "num_habitacion")
	}
	if in.CodigoHotel != nil && *in.CodigoHotel != r.CodigoHotel {
		changed = append(changed, "codigo_hotel")
	}
	if in.IDPago != nil && (r.IDPago == nil || *in.IDPago != *r.IDPago) {
		changed = append(changed, "id_pago")
	}
	if in.IDPaquete != nil && (r.IDPaquete == nil || *in.IDPaquete != *r.IDPaquete) {
		changed = append(changed, "id_paquete")
	}
	if in.IDUsuario != nil && *in.IDUsuario != r.IDUsuario {
		changed = append(changed, "id_usuario")
	}
	if in.Estado != nil && models.Lifecycle(*in.Estado) != r.Estado {
		changed = append(changed, "estado")
	}
	return changed
}
