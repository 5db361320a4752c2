package services

import (
	"context"
	stderrors "errors"
	"strings"

	"munaybol/constants"
	"munaybol/errors"
	"munaybol/models"
	"munaybol/permissions"
	"munaybol/repository"
	"munaybol/services/logger"
	"munaybol/validator"

	"gorm.io/gorm"
)

type PaymentInput struct {
	TipoPago  *string
	Monto     *float64
	Fecha     *models.Date
	Estado    *string
	IDUsuario *uint
}

type PaymentFilter struct {
	Estado string
	Page   int
	Limit  int
}

// PaymentService manages payments and travel suggestions, both owned by a user
type PaymentService struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewPaymentService(db *gorm.DB, log logger.Logger) *PaymentService {
	return &PaymentService{db: db, logger: log}
}

func (s *PaymentService) CreatePayment(ctx context.Context, actor permissions.Actor, in PaymentInput) (*models.Payment, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized()
	}
	if !permissions.Can(actor, permissions.Create, permissions.Collection(permissions.Payment)) {
		return nil, errors.Forbidden()
	}
	tipo, err := requiredText("tipo_pago", in.TipoPago)
	if err != nil {
		return nil, err
	}
	if in.Monto == nil || *in.Monto <= 0 {
		return nil, errors.Validation("El monto debe ser mayor a cero.")
	}

	p := &models.Payment{
		IDUsuario: actor.UserID,
		TipoPago:  tipo,
		Monto:     *in.Monto,
		Fecha:     models.Today(),
		Estado:    constants.PaymentPending,
	}
	if in.Fecha != nil && !in.Fecha.IsZero() {
		p.Fecha = *in.Fecha
	}
	if actor.IsSuperAdmin() {
		if in.IDUsuario != nil {
			p.IDUsuario = *in.IDUsuario
		}
		if in.Estado != nil {
			if err := validator.ValidatePaymentStatus(*in.Estado); err != nil {
				return nil, err
			}
			p.Estado = *in.Estado
		}
	} else if in.Estado != nil && *in.Estado != constants.PaymentPending {
		return nil, errors.NewAppError(errors.ErrCodeRestrictedField, "No tiene permiso para modificar: estado.", nil)
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, errors.DB(err)
	}
	s.logger.Info("Pago %d registrado para usuario %d", p.IDPago, p.IDUsuario)
	return p, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, actor permissions.Actor, f PaymentFilter) ([]models.Payment, int64, error) {
	if !actor.Authenticated() {
		return nil, 0, errors.Unauthorized()
	}
	q := s.db.WithContext(ctx).Model(&models.Payment{}).Scopes(repository.OwnedBy(actor, "id_usuario"))
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	var out []models.Payment
	if err := q.Scopes(repository.Paginate(f.Page, f.Limit)).Order("id_pago DESC").Find(&out).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	return out, total, nil
}

func (s *PaymentService) loadPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := s.db.WithContext(ctx).Where("id_pago = ?", id).Take(&p).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Pago no encontrado.")
		}
		return nil, errors.DB(err)
	}
	return &p, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, actor permissions.Actor, id uint) (*models.Payment, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized()
	}
	p, err := s.loadPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permissions.Can(actor, permissions.Read, permissions.Owned(permissions.Payment, p.IDUsuario)) {
		return nil, errors.NotFound("Pago no encontrado.")
	}
	return p, nil
}

// UpdatePayment is reserved to superadmins, typically to confirm or reject a payment
func (s *PaymentService) UpdatePayment(ctx context.Context, actor permissions.Actor, id uint, in PaymentInput) (*models.Payment, error) {
	p, err := s.GetPayment(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !permissions.Can(actor, permissions.Update, permissions.Owned(permissions.Payment, p.IDUsuario)) {
		return nil, errors.Forbidden()
	}
	if in.Estado != nil {
		if err := validator.ValidatePaymentStatus(*in.Estado); err != nil {
			return nil, err
		}
		p.Estado = *in.Estado
	}
	if in.TipoPago != nil && strings.TrimSpace(*in.TipoPago) != "" {
		p.TipoPago = strings.TrimSpace(*in.TipoPago)
	}
	if in.Monto != nil {
		if *in.Monto <= 0 {
			return nil, errors.Validation("El monto debe ser mayor a cero.")
		}
		p.Monto = *in.Monto
	}
	if in.Fecha != nil && !in.Fecha.IsZero() {
		p.Fecha = *in.Fecha
	}
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, errors.DB(err)
	}
	return p, nil
}

func (s *PaymentService) DeletePayment(ctx context.Context, actor permissions.Actor, id uint) error {
	p, err := s.GetPayment(ctx, actor, id)
	if err != nil {
		return err
	}
	if !permissions.Can(actor, permissions.Delete, permissions.Owned(permissions.Payment, p.IDUsuario)) {
		return errors.Forbidden()
	}
	if err := s.db.WithContext(ctx).Delete(&models.Payment{}, "id_pago = ?", id).Error; err != nil {
		return errors.DB(err)
	}
	return nil
}

// Suggestions

func (s *PaymentService) CreateSuggestion(ctx context.Context, actor permissions.Actor, preferencias string) (*models.Suggestion, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized()
	}
	text := strings.TrimSpace(preferencias)
	if text == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "El campo preferencias es obligatorio.", nil)
	}
	sg := &models.Suggestion{IDUsuario: actor.UserID, Preferencias: text}
	if err := s.db.WithContext(ctx).Create(sg).Error; err != nil {
		return nil, errors.DB(err)
	}
	return sg, nil
}

func (s *PaymentService) ListSuggestions(ctx context.Context, actor permissions.Actor, page, limit int) ([]models.Suggestion, int64, error) {
	if !actor.Authenticated() {
		return nil, 0, errors.Unauthorized()
	}
	q := s.db.WithContext(ctx).Model(&models.Suggestion{}).Scopes(repository.OwnedBy(actor, "id_usuario"))
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	var out []models.Suggestion
	if err := q.Scopes(repository.Paginate(page, limit)).Order("id_sugerencia DESC").Find(&out).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	return out, total, nil
}

func (s *PaymentService) GetSuggestion(ctx context.Context, actor permissions.Actor, id uint) (*models.Suggestion, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized()
	}
	var sg models.Suggestion
	if err := s.db.WithContext(ctx).Where("id_sugerencia = ?", id).Take(&sg).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Sugerencia no encontrada.")
		}
		return nil, errors.DB(err)
	}
	if !permissions.Can(actor, permissions.Read, permissions.Owned(permissions.Suggestion, sg.IDUsuario)) {
		return nil, errors.NotFound("Sugerencia no encontrada.")
	}
	return &sg, nil
}

func (s *PaymentService) DeleteSuggestion(ctx context.Context, actor permissions.Actor, id uint) error {
	sg, err := s.GetSuggestion(ctx, actor, id)
	if err != nil {
		return err
	}
	if !permissions.Can(actor, permissions.Delete, permissions.Owned(permissions.Suggestion, sg.IDUsuario)) {
		return errors.Forbidden()
	}
	if err := s.db.WithContext(ctx).Delete(&models.Suggestion{}, "id_sugerencia = ?", id).Error; err != nil {
		return errors.DB(err)
	}
	return nil
}
