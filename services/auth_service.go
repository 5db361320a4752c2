package services

import (
	"context"
	stderrors "errors"
	"strings"

	"munaybol/constants"
	"munaybol/errors"
	"munaybol/models"
	"munaybol/permissions"
	"munaybol/services/logger"
	"munaybol/validator"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const msgBadCredentials = "Correo o contraseña incorrectos."

// AuthResult is the body of every successful login
type AuthResult struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	Usuario *models.User `json:"usuario"`
}

type RegisterInput struct {
	Nombre      string
	Correo      string
	Contrasenia string
	Pais        string
	Pasaporte   string
}

type AuthServiceOptions struct {
	DB     *gorm.DB
	Tokens *TokenService
	Logger logger.Logger
	Google IdentityProvider
	Github IdentityProvider
}

type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
	logger logger.Logger
	google IdentityProvider
	github IdentityProvider
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		db:     opts.DB,
		tokens: opts.Tokens,
		logger: opts.Logger,
		google: opts.Google,
		github: opts.Github,
	}
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Register creates a regular account
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.register(ctx, in, constants.RoleUser)
}

// RegisterSuperAdmin creates a superadmin. Only superadmins may call it, except to
// bootstrap the very first one.
func (s *AuthService) RegisterSuperAdmin(ctx context.Context, actor permissions.Actor, in RegisterInput) (*models.User, error) {
	if !actor.IsSuperAdmin() {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("rol = ?", constants.RoleSuperAdmin).Count(&n).Error; err != nil {
			return nil, errors.DB(err)
		}
		if n > 0 {
			return nil, errors.Forbidden()
		}
	}
	return s.register(ctx, in, constants.RoleSuperAdmin)
}

func (s *AuthService) register(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Correo))
	if err := validator.ValidateRegistration(email, in.Contrasenia); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Nombre)
	if name == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "El campo nombre es obligatorio.", nil)
	}

	exists, err := s.emailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.NewAppError(errors.ErrCodeUserExists, "El correo ya está registrado.", nil)
	}

	hashed, err := HashPassword(in.Contrasenia)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "No se pudo procesar la contraseña.", err)
	}
	user := &models.User{
		Nombre:      name,
		Correo:      email,
		Contrasenia: hashed,
		Rol:         role,
		Pais:        strings.TrimSpace(in.Pais),
		Pasaporte:   strings.TrimSpace(in.Pasaporte),
		Estado:      models.Active,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, errors.DB(err)
	}
	s.logger.Info("Usuario %d registrado con rol %s", user.ID, role)
	return user, nil
}

func (s *AuthService) emailTaken(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("correo = ?", email).Count(&n).Error; err != nil {
		return false, errors.DB(err)
	}
	return n > 0, nil
}

// Login checks email and password and issues a token pair
func (s *AuthService) Login(ctx context.Context, correo, password string) (*AuthResult, error) {
	user, err := s.checkCredentials(ctx, correo, password)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// LoginSuperAdmin is Login restricted to superadmins
func (s *AuthService) LoginSuperAdmin(ctx context.Context, correo, password string) (*AuthResult, error) {
	user, err := s.checkCredentials(ctx, correo, password)
	if err != nil {
		return nil, err
	}
	if !user.IsSuperAdmin() {
		return nil, errors.Forbidden()
	}
	return s.issue(user)
}

func (s *AuthService) checkCredentials(ctx context.Context, correo, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("correo = ?", strings.ToLower(strings.TrimSpace(correo))).Take(&user).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeInvalidPassword, msgBadCredentials, nil)
		}
		return nil, errors.DB(err)
	}
	if user.Contrasenia == "" || bcrypt.CompareHashAndPassword([]byte(user.Contrasenia), []byte(password)) != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidPassword, msgBadCredentials, nil)
	}
	if !user.Estado.IsActive() {
		return nil, errors.NewAppError(errors.ErrCodeInactiveUser, "La cuenta está desactivada.", nil)
	}
	return &user, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	access, refresh, err := s.tokens.GenerateTokenPair(UserInfo{UserId: user.ID, Role: user.Rol})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "No se pudo generar el token.", err)
	}
	return &AuthResult{Access: access, Refresh: refresh, Usuario: user}, nil
}

// Refresh exchanges a refresh token for a new access token carrying the current role
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ParseToken(refreshToken, false)
	if err != nil {
		return "", err
	}
	user, err := s.ActiveUser(ctx, claims.UserInfo.UserId)
	if err != nil {
		return "", err
	}
	access, err := s.tokens.GenerateToken(UserInfo{UserId: user.ID, Role: user.Rol}, true)
	if err != nil {
		return "", errors.NewAppError(errors.ErrCodeInvalidToken, "No se pudo generar el token.", err)
	}
	return access, nil
}

// ActiveUser loads a user and rejects disabled accounts
func (s *AuthService) ActiveUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeUserNotFound, "Usuario no encontrado.", nil)
		}
		return nil, errors.DB(err)
	}
	if !user.Estado.IsActive() {
		return nil, errors.NewAppError(errors.ErrCodeInactiveUser, "La cuenta está desactivada.", nil)
	}
	return &user, nil
}

// LoginWithGoogle validates a Google id token
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	return s.loginWith(ctx, s.google, "Google", idToken)
}

// LoginWithGithub exchanges a GitHub authorization code
func (s *AuthService) LoginWithGithub(ctx context.Context, code string) (*AuthResult, error) {
	return s.loginWith(ctx, s.github, "GitHub", code)
}

func (s *AuthService) loginWith(ctx context.Context, provider IdentityProvider, name, credential string) (*AuthResult, error) {
	if provider == nil {
		return nil, errors.Validation("El inicio de sesión con " + name + " no está configurado.")
	}
	if strings.TrimSpace(credential) == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "El token es obligatorio.", nil)
	}
	identity, err := provider.Identify(ctx, credential)
	if err != nil {
		s.logger.Error("login %s: %v", name, err)
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "No se pudo verificar la identidad con "+name+".", err)
	}
	user, err := s.getOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !user.Estado.IsActive() {
		return nil, errors.NewAppError(errors.ErrCodeInactiveUser, "La cuenta está desactivada.", nil)
	}
	return s.issue(user)
}

func (s *AuthService) getOrCreate(ctx context.Context, id *OAuthIdentity) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(id.Email))
	var user models.User
	err := s.db.WithContext(ctx).Where("correo = ?", email).Take(&user).Error
	if err == nil {
		return &user, nil
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.DB(err)
	}

	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}
	user = models.User{
		Nombre:    name,
		Correo:    email,
		Rol:       constants.RoleUser,
		AvatarURL: id.AvatarURL,
		Estado:    models.Active,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.DB(err)
	}
	s.logger.Info("Usuario %d creado vía %s", user.ID, id.Provider)
	return &user, nil
}
