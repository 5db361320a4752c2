package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"munaybol/errors"
	"munaybol/models"
	"munaybol/permissions"
	"munaybol/repository"
	"munaybol/services/logger"
	"munaybol/validator"

	"gorm.io/gorm"
)

// UserUpdate carries a profile change; nil means absent
type UserUpdate struct {
	Nombre      *string
	Correo      *string
	Pais        *string
	Pasaporte   *string
	AvatarURL   *string
	Contrasenia *string
	Rol         *string
	Estado      *bool
}

type UserFilter struct {
	Estado *bool
	Rol    string
	Q      string
	Page   int
	Limit  int
}

type UserServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

type UserService struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewUserService(opts UserServiceOptions) *UserService {
	return &UserService{db: opts.DB, logger: opts.Logger}
}

func (s *UserService) load(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeUserNotFound, "Usuario no encontrado.", nil)
		}
		return nil, errors.DB(err)
	}
	return &u, nil
}

func (s *UserService) Me(ctx context.Context, actor permissions.Actor) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized()
	}
	return s.load(ctx, actor.UserID)
}

// Get returns a user to itself or to a superadmin
func (s *UserService) Get(ctx context.Context, actor permissions.Actor, id uint) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized()
	}
	if !permissions.Can(actor, permissions.Read, permissions.Owned(permissions.User, id)) {
		return nil, errors.NewAppError(errors.ErrCodeUserNotFound, "Usuario no encontrado.", nil)
	}
	return s.load(ctx, id)
}

func (s *UserService) List(ctx context.Context, actor permissions.Actor, f UserFilter) ([]models.User, int64, error) {
	if !actor.Authenticated() {
		return nil, 0, errors.Unauthorized()
	}
	if !permissions.Can(actor, permissions.List, permissions.Collection(permissions.User)) {
		return nil, 0, errors.Forbidden()
	}
	q := s.db.WithContext(ctx).Model(&models.User{}).
		Scopes(repository.LifecycleFilter(actor, models.User{}, f.Estado))
	if f.Rol != "" {
		q = q.Where("rol = ?", f.Rol)
	}
	if q2 := strings.TrimSpace(f.Q); q2 != "" {
		like := "%" + strings.ToLower(q2) + "%"
		q = q.Where("LOWER(nombre) LIKE ? OR LOWER(correo) LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	var out []models.User
	if err := q.Scopes(repository.Paginate(f.Page, f.Limit)).Order("id ASC").Find(&out).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	return out, total, nil
}

// Update changes a profile. Users may edit their own personal fields; role, email and
// status belong to superadmins.
func (s *UserService) Update(ctx context.Context, actor permissions.Actor, id uint, in UserUpdate) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, errors.Unauthorized()
	}
	if !permissions.Can(actor, permissions.Update, permissions.Owned(permissions.User, id)) {
		return nil, errors.Forbidden()
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updates, changed, err := s.diff(u, in)
	if err != nil {
		return nil, err
	}
	if restricted := permissions.RestrictedUserFields(actor, changed); len(restricted) > 0 {
		return nil, errors.NewAppError(errors.ErrCodeRestrictedField,
			fmt.Sprintf("No tiene permiso para modificar: %s.", strings.Join(restricted, ", ")), nil)
	}
	if len(updates) == 0 {
		return u, nil
	}
	if email, ok := updates["correo"]; ok {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("correo = ? AND id <> ?", email, id).Count(&n).Error; err != nil {
			return nil, errors.DB(err)
		}
		if n > 0 {
			return nil, errors.NewAppError(errors.ErrCodeUserExists, "El correo ya está registrado.", nil)
		}
	}

	if err := s.db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		return nil, errors.DB(err)
	}
	s.logger.Info("Usuario %d actualizado por %d: %s", id, actor.UserID, strings.Join(changed, ","))
	return s.load(ctx, id)
}

func (s *UserService) diff(u *models.User, in UserUpdate) (map[string]interface{}, []string, error) {
	updates := map[string]interface{}{}
	var changed []string
	set := func(col string, v interface{}) {
		updates[col] = v
		changed = append(changed, col)
	}

	if in.Nombre != nil && strings.TrimSpace(*in.Nombre) != u.Nombre {
		if strings.TrimSpace(*in.Nombre) == "" {
			return nil, nil, errors.NewAppError(errors.ErrCodeRequiredField, "El campo nombre es obligatorio.", nil)
		}
		set("nombre", strings.TrimSpace(*in.Nombre))
	}
	if in.Correo != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Correo))
		if email != u.Correo {
			if !validator.IsValidEmail(email) {
				return nil, nil, errors.NewAppError(errors.ErrCodeInvalidEmail, "Correo electrónico inválido.", nil)
			}
			set("correo", email)
		}
	}
	if in.Pais != nil && *in.Pais != u.Pais {
		set("pais", *in.Pais)
	}
	if in.Pasaporte != nil && *in.Pasaporte != u.Pasaporte {
		set("pasaporte", *in.Pasaporte)
	}
	if in.AvatarURL != nil && *in.AvatarURL != u.AvatarURL {
		set("avatar_url", *in.AvatarURL)
	}
	if in.Contrasenia != nil {
		if err := validator.ValidatePassword(*in.Contrasenia); err != nil {
			return nil, nil, err
		}
		hashed, err := HashPassword(*in.Contrasenia)
		if err != nil {
			return nil, nil, errors.NewAppError(errors.ErrCodeValidation, "No se pudo procesar la contraseña.", err)
		}
		set("contrasenia", hashed)
	}
	if in.Rol != nil && *in.Rol != u.Rol {
		set("rol", *in.Rol)
	}
	if in.Estado != nil && models.Lifecycle(*in.Estado) != u.Estado {
		set("estado", models.Lifecycle(*in.Estado))
	}
	return updates, changed, nil
}

// Disable soft-deletes an account
func (s *UserService) Disable(ctx context.Context, actor permissions.Actor, id uint) error {
	if !actor.Authenticated() {
		return errors.Unauthorized()
	}
	if !permissions.Can(actor, permissions.Delete, permissions.Owned(permissions.User, id)) {
		return errors.Forbidden()
	}
	if err := SetLifecycle(ctx, s.db, models.User{}, id, models.Disabled); err != nil {
		return err
	}
	s.logger.Info("Usuario %d desactivado por %d", id, actor.UserID)
	return nil
}
