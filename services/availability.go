package services

import (
	"context"
	stderrors "errors"
	"fmt"

	"munaybol/constants"
	"munaybol/errors"
	"munaybol/models"
	"munaybol/permissions"
	"munaybol/repository"
	"munaybol/services/logger"
	"munaybol/validator"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Availability is the answer of the availability query for one room
type Availability struct {
	NumHabitacion        string            `json:"num_habitacion"`
	Desde                models.Date       `json:"desde"`
	Hasta                models.Date       `json:"hasta"`
	IntervalosReservados []models.Interval `json:"intervalos_reservados"`
	NextAvailableFrom    models.Date       `json:"next_available_from"`
}

// NextAvailable sweeps intervals sorted by start and returns the first day >= from
// not covered by any of them. Active intervals of a room never overlap, so one pass suffices.
func NextAvailable(from models.Date, intervals []models.Interval) models.Date {
	cursor := from
	for _, iv := range intervals {
		if iv.Contains(cursor) {
			cursor = iv.End.AddDays(1)
		}
	}
	return cursor
}

type AvailabilityServiceOptions struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger logger.Logger
}

type AvailabilityService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger logger.Logger
	today  func() models.Date
}

func NewAvailabilityService(opts AvailabilityServiceOptions) *AvailabilityService {
	return &AvailabilityService{
		db:     opts.DB,
		rdb:    opts.Redis,
		logger: opts.Logger,
		today:  models.Today,
	}
}

func availabilityVersionKey(room string) string {
	return "availability:ver:" + room
}

func availabilityKey(room string, version int64, from, to models.Date) string {
	return fmt.Sprintf("availability:%s:v%d:%s:%s", room, version, from, to)
}

// Query answers GET /habitaciones/{num}/disponibilidad/. desde defaults to today and
// hasta to desde + 90 days.
func (s *AvailabilityService) Query(ctx context.Context, actor permissions.Actor, room, desde, hasta string) (*Availability, error) {
	from, err := validator.ParseDateParam("desde", desde, s.today())
	if err != nil {
		return nil, err
	}
	to, err := validator.ParseDateParam("hasta", hasta, from.AddDays(constants.DefaultAvailabilityWindow))
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateRange(from, to); err != nil {
		return nil, err
	}

	var r models.Room
	if err := s.db.WithContext(ctx).Where("num = ?", room).Take(&r).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Habitación no encontrada.")
		}
		return nil, errors.DB(err)
	}
	if !permissions.Can(actor, permissions.Read, permissions.Catalog(permissions.Room, !r.Disponible.IsActive())) {
		return nil, errors.NotFound("Habitación no encontrada.")
	}

	version, err := GetVersion(ctx, s.rdb, availabilityVersionKey(room))
	if err != nil {
		s.logger.Error("availability cache version %s: %v", room, err)
		return s.Compute(ctx, s.db, room, from, to)
	}
	key := availabilityKey(room, version, from, to)

	var cached Availability
	if found, err := GetFromRedis(ctx, s.rdb, key, &cached); err != nil {
		s.logger.Error("availability cache get %s: %v", key, err)
	} else if found {
		return &cached, nil
	}

	result, err := s.Compute(ctx, s.db, room, from, to)
	if err != nil {
		return nil, err
	}
	if err := SetToRedis(ctx, s.rdb, key, result, constants.AvailabilityCacheTTL); err != nil {
		s.logger.Error("availability cache set %s: %v", key, err)
	}
	return result, nil
}

// Compute reads the reservations of the window and runs the sweep, without caching
func (s *AvailabilityService) Compute(ctx context.Context, db *gorm.DB, room string, from, to models.Date) (*Availability, error) {
	reservations, err := repository.ActiveReservationsInWindow(ctx, db, room, from, to)
	if err != nil {
		return nil, errors.DB(err)
	}

	intervals := make([]models.Interval, 0, len(reservations))
	for _, r := range reservations {
		intervals = append(intervals, r.Interval())
	}

	return &Availability{
		NumHabitacion:        room,
		Desde:                from,
		Hasta:                to,
		IntervalosReservados: intervals,
		NextAvailableFrom:    NextAvailable(from, intervals),
	}, nil
}

// Invalidate drops every cached answer for the given rooms
func (s *AvailabilityService) Invalidate(ctx context.Context, rooms ...string) {
	if s == nil {
		return
	}
	for _, room := range rooms {
		if room == "" {
			continue
		}
		if err := BumpVersion(ctx, s.rdb, availabilityVersionKey(room)); err != nil {
			s.logger.Error("availability cache invalidate %s: %v", room, err)
		}
	}
}
