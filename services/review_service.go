package services

import (
	"context"
	stderrors "errors"
	"strings"

	"munaybol/errors"
	"munaybol/models"
	"munaybol/permissions"
	"munaybol/repository"
	"munaybol/services/logger"
	"munaybol/validator"

	"gorm.io/gorm"
)

type ReviewInput struct {
	IDHotel      *uint
	IDLugar      *uint
	IDPaquete    *uint
	Calificacion *int
	Comentario   *string
	Estado       *bool
}

type ReviewFilter struct {
	IDHotel   *uint
	IDLugar   *uint
	IDPaquete *uint
	Estado    *bool
	Page      int
	Limit     int
}

type ReviewService struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewReviewService(db *gorm.DB, log logger.Logger) *ReviewService {
	return &ReviewService{db: db, logger: log}
}

func (s *ReviewService) List(ctx context.Context, actor permissions.Actor, f ReviewFilter) ([]models.Review, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.IDHotel != nil {
			db = db.Where("id_hotel = ?", *f.IDHotel)
		}
		if f.IDLugar != nil {
			db = db.Where("id_lugar = ?", *f.IDLugar)
		}
		if f.IDPaquete != nil {
			db = db.Where("id_paquete = ?", *f.IDPaquete)
		}
		return db
	}
	return listVisible[models.Review](ctx, s.db, actor, f.Estado, f.Page, f.Limit, "fecha_creacion DESC", scope)
}

func (s *ReviewService) Get(ctx context.Context, actor permissions.Actor, id uint) (*models.Review, error) {
	return getVisible[models.Review](ctx, s.db, actor, id, "Reseña no encontrada.")
}

func (s *ReviewService) Create(ctx context.Context, actor permissions.Actor, in ReviewInput) (*models.Review, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized()
	}
	if !permissions.Can(actor, permissions.Create, permissions.Collection(permissions.Review)) {
		return nil, errors.Forbidden()
	}
	if in.Calificacion == nil {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "El campo calificacion es obligatorio.", nil)
	}
	r := &models.Review{
		IDUsuario:    actor.UserID,
		IDHotel:      in.IDHotel,
		IDLugar:      in.IDLugar,
		IDPaquete:    in.IDPaquete,
		Calificacion: *in.Calificacion,
		Estado:       models.Active,
	}
	if in.Comentario != nil {
		r.Comentario = strings.TrimSpace(*in.Comentario)
	}
	if err := validator.ValidateReview(r); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReviewTarget(ctx, tx, r); err != nil {
			return err
		}
		if err := tx.Create(r).Error; err != nil {
			return errors.DB(err)
		}
		return s.refreshRating(ctx, tx, r.IDHotel)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func checkReviewTarget(ctx context.Context, tx *gorm.DB, r *models.Review) error {
	var (
		entity models.Disableable
		id     uint
		msg    string
	)
	switch {
	case r.IDHotel != nil:
		entity, id, msg = models.Hotel{}, *r.IDHotel, "El hotel indicado no existe."
	case r.IDLugar != nil:
		entity, id, msg = models.Place{}, *r.IDLugar, "El lugar turístico indicado no existe."
	default:
		entity, id, msg = models.TourPackage{}, *r.IDPaquete, "El paquete indicado no existe."
	}
	var n int64
	if err := tx.WithContext(ctx).Model(entity).
		Scopes(repository.ByID(entity, id), repository.Active(entity)).Count(&n).Error; err != nil {
		return errors.DB(err)
	}
	if n == 0 {
		return errors.Validation(msg)
	}
	return nil
}

func (s *ReviewService) refreshRating(ctx context.Context, tx *gorm.DB, hotelID *uint) error {
	if hotelID == nil {
		return nil
	}
	if err := RecomputeHotelRating(ctx, tx, *hotelID); err != nil {
		return errors.DB(err)
	}
	return nil
}

func (s *ReviewService) load(ctx context.Context, id uint) (*models.Review, error) {
	var r models.Review
	if err := s.db.WithContext(ctx).Where("id_review = ?", id).Take(&r).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Reseña no encontrada.")
		}
		return nil, errors.DB(err)
	}
	return &r, nil
}

// Update lets the author change rating and comment; targets are fixed
func (s *ReviewService) Update(ctx context.Context, actor permissions.Actor, id uint, in ReviewInput) (*models.Review, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized()
	}
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permissions.Can(actor, permissions.Update, permissions.Owned(permissions.Review, r.IDUsuario)) {
		return nil, errors.Forbidden()
	}
	if in.IDHotel != nil || in.IDLugar != nil || in.IDPaquete != nil {
		return nil, errors.NewAppError(errors.ErrCodeRestrictedField, "No se puede cambiar el destino de la reseña.", nil)
	}
	if in.Calificacion != nil {
		r.Calificacion = *in.Calificacion
	}
	if in.Comentario != nil {
		r.Comentario = strings.TrimSpace(*in.Comentario)
	}
	if in.Estado != nil {
		if !actor.IsSuperAdmin() {
			return nil, errors.NewAppError(errors.ErrCodeRestrictedField, "No tiene permiso para modificar: estado.", nil)
		}
		r.Estado = models.Lifecycle(*in.Estado)
	}
	if err := validator.ValidateReview(r); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(r).Error; err != nil {
			return errors.DB(err)
		}
		return s.refreshRating(ctx, tx, r.IDHotel)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Disable hides a review and refreshes the hotel average
func (s *ReviewService) Disable(ctx context.Context, actor permissions.Actor, id uint) error {
	if !actor.Authenticated() {
		return errors.Unauthorized()
	}
	r, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !permissions.Can(actor, permissions.Delete, permissions.Owned(permissions.Review, r.IDUsuario)) {
		return errors.Forbidden()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := SetLifecycle(ctx, tx, models.Review{}, id, models.Disabled); err != nil {
			return err
		}
		return s.refreshRating(ctx, tx, r.IDHotel)
	})
}
