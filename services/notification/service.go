package notification

import (
	"context"
	stderrors "errors"
	"time"

	"munaybol/constants"
	"munaybol/errors"
	"munaybol/models"
	"munaybol/permissions"
	"munaybol/repository"
	"munaybol/services/logger"

	"gorm.io/gorm"
)

const alertTimeout = 10 * time.Second

type ServiceOptions struct {
	DB        *gorm.DB
	Logger    logger.Logger
	Publisher Publisher
	Alerter   Alerter
}

// Service stores notifications and pushes them to connected clients
type Service struct {
	db        *gorm.DB
	logger    logger.Logger
	publisher Publisher
	alerter   Alerter
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		db:        opts.DB,
		logger:    opts.Logger,
		publisher: opts.Publisher,
		alerter:   opts.Alerter,
	}
}

// Notify persists a notification for userID and pushes it. Push failures are only logged.
func (s *Service) Notify(ctx context.Context, userID uint, title, message, link string) (*models.Notification, error) {
	n := &models.Notification{
		UsuarioID: userID,
		Title:     title,
		Message:   message,
		Link:      link,
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, errors.DB(err)
	}
	s.push(ctx, *n)
	return n, nil
}

// NotifyAll sends the same notification to every active traveller account
func (s *Service) NotifyAll(ctx context.Context, title, message, link string) (int, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("estado = ? AND rol = ?", models.Active, constants.RoleUser).
		Pluck("id", &ids).Error; err != nil {
		return 0, errors.DB(err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	rows := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.Notification{UsuarioID: id, Title: title, Message: message, Link: link})
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&rows, 200).Error; err != nil {
		return 0, errors.DB(err)
	}
	for _, n := range rows {
		s.push(ctx, n)
	}
	return len(rows), nil
}

// AlertAdmins forwards text to the admin channel when one is configured
func (s *Service) AlertAdmins(ctx context.Context, text string) {
	if s.alerter == nil {
		return
	}
	go func() {
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
		defer cancel()
		if err := s.alerter.Alert(actx, text); err != nil {
			s.logger.Error("alerta admin: %v", err)
		}
	}()
}

func (s *Service) push(ctx context.Context, n models.Notification) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, n.UsuarioID, NewNotificationEvent(n)); err != nil {
		s.logger.Error("push notificación %d usuario %d: %v", n.ID, n.UsuarioID, err)
	}
}

// List returns the actor's notifications, newest first
func (s *Service) List(ctx context.Context, actor permissions.Actor, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	if !permissions.Can(actor, permissions.List, permissions.Collection(permissions.Notification)) {
		return nil, 0, errors.Unauthorized()
	}
	q := s.db.WithContext(ctx).Model(&models.Notification{}).Where("usuario_id = ?", actor.UserID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	var out []models.Notification
	if err := q.Scopes(repository.Paginate(page, limit)).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	return out, total, nil
}

// Get returns one notification of the actor
func (s *Service) Get(ctx context.Context, actor permissions.Actor, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&n).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Notificación no encontrada.")
		}
		return nil, errors.DB(err)
	}
	if !permissions.Can(actor, permissions.Read, permissions.Owned(permissions.Notification, n.UsuarioID)) {
		return nil, errors.NotFound("Notificación no encontrada.")
	}
	return &n, nil
}

// SetRead flips the read flag of one notification
func (s *Service) SetRead(ctx context.Context, actor permissions.Actor, id uint, read bool) (*models.Notification, error) {
	n, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(n).Update("is_read", read).Error; err != nil {
		return nil, errors.DB(err)
	}
	n.Read = read
	return n, nil
}

// MarkAllRead marks every unread notification of the actor as read
func (s *Service) MarkAllRead(ctx context.Context, actor permissions.Actor) (int64, error) {
	if !actor.Authenticated() {
		return 0, errors.Unauthorized()
	}
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("usuario_id = ? AND is_read = ?", actor.UserID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, errors.DB(res.Error)
	}
	return res.RowsAffected, nil
}

// Delete removes a notification permanently
func (s *Service) Delete(ctx context.Context, actor permissions.Actor, id uint) error {
	n, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(n).Error; err != nil {
		return errors.DB(err)
	}
	return nil
}
