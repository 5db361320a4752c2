package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"munaybol/errors"
	"munaybol/models"
	"munaybol/permissions"
	"munaybol/repository"
	"munaybol/services/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	hotelsVersionKey = "hoteles:version"
	hotelsCacheTTL   = 10 * time.Minute
)

// Broadcaster fans a notification out to every active user
type Broadcaster interface {
	NotifyAll(ctx context.Context, title, message, link string) (int, error)
}

type CatalogFilter struct {
	Departamento string
	Q            string
	Estado       *bool
	Page         int
	Limit        int
}

type HotelInput struct {
	Nombre         *string
	Ubicacion      *string
	Departamento   *string
	Calificacion   *float64
	URL            *string
	URLImagenHotel *string
	Estado         *bool
}

type PlaceInput struct {
	Nombre       *string
	Ubicacion    *string
	Departamento *string
	Tipo         *string
	Horario      *string
	Descripcion  *string
	URLImage     *string
	Estado       *bool
}

type PackageInput struct {
	Nombre      *string
	Descripcion *string
	Precio      *float64
	IDHotel     *uint
	IDLugar     *uint
	Estado      *bool
}

type RoomInput struct {
	Num             *string
	Caracteristicas *string
	Precio          *float64
	CantHuespedes   *int
	CodigoHotel     *uint
	Disponible      *bool
}

type RoomFilter struct {
	CodigoHotel *uint
	Disponible  *bool
	Page        int
	Limit       int
}

type CatalogServiceOptions struct {
	DB           *gorm.DB
	Redis        *redis.Client
	Logger       logger.Logger
	Availability *AvailabilityService
	Broadcaster  Broadcaster
}

// CatalogService manages hotels, places, packages and rooms. Reads are public and
// hide disabled rows; writes belong to superadmins.
type CatalogService struct {
	db           *gorm.DB
	rdb          *redis.Client
	logger       logger.Logger
	availability *AvailabilityService
	broadcaster  Broadcaster
}

func NewCatalogService(opts CatalogServiceOptions) *CatalogService {
	return &CatalogService{
		db:           opts.DB,
		rdb:          opts.Redis,
		logger:       opts.Logger,
		availability: opts.Availability,
		broadcaster:  opts.Broadcaster,
	}
}

func requireAdmin(actor permissions.Actor, kind permissions.Kind, action permissions.Action) error {
	if permissions.Can(actor, action, permissions.Collection(kind)) {
		return nil
	}
	if !actor.Authenticated() {
		return errors.Unauthorized()
	}
	return errors.Forbidden()
}

// getVisible loads one row by primary key; disabled rows only exist for superadmins
func getVisible[T models.Disableable](ctx context.Context, db *gorm.DB, actor permissions.Actor, id interface{}, notFound string) (*T, error) {
	var zero T
	var out T
	err := db.WithContext(ctx).Model(&zero).
		Scopes(repository.VisibleTo(actor, zero), repository.ByID(zero, id)).
		Take(&out).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(notFound)
		}
		return nil, errors.DB(err)
	}
	return &out, nil
}

// listVisible pages a catalog table honouring visibility and the ?estado= filter
func listVisible[T models.Disableable](ctx context.Context, db *gorm.DB, actor permissions.Actor, estado *bool, page, limit int, order string, scopes ...repository.Scope) ([]T, int64, error) {
	var zero T
	q := db.WithContext(ctx).Model(&zero).
		Scopes(repository.VisibleTo(actor, zero), repository.LifecycleFilter(actor, zero, estado)).
		Scopes(scopes...)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	var out []T
	if err := q.Scopes(repository.Paginate(page, limit)).Order(order).Find(&out).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	return out, total, nil
}

func byDepartment(dep string) repository.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(dep) == "" {
			return db
		}
		return db.Where("LOWER(departamento) = ?", strings.ToLower(strings.TrimSpace(dep)))
	}
}

func nameContains(q string) repository.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(q) == "" {
			return db
		}
		return db.Where("LOWER(nombre) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(q))+"%")
	}
}

func requiredText(field string, v *string) (string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "", errors.NewAppError(errors.ErrCodeRequiredField, fmt.Sprintf("El campo %s es obligatorio.", field), nil)
	}
	return strings.TrimSpace(*v), nil
}

func lifecycleOr(v *bool, def models.Lifecycle) models.Lifecycle {
	if v == nil {
		return def
	}
	return models.Lifecycle(*v)
}

// Hotels

type hotelPage struct {
	Items []models.Hotel `json:"items"`
	Total int64          `json:"total"`
}

func (s *CatalogService) ListHotels(ctx context.Context, actor permissions.Actor, f CatalogFilter) ([]models.Hotel, int64, error) {
	// only the public view is cached
	cacheable := !actor.IsSuperAdmin()
	var key string
	if cacheable && s.rdb != nil {
		version, err := GetVersion(ctx, s.rdb, hotelsVersionKey)
		if err == nil {
			page, limit := repository.NormalizePage(f.Page, f.Limit)
			key = fmt.Sprintf("hoteles:v%d:%s:%s:%d:%d",
				version, strings.ToLower(f.Departamento), strings.ToLower(f.Q), page, limit)
			var cached hotelPage
			if found, err := GetFromRedis(ctx, s.rdb, key, &cached); err == nil && found {
				return cached.Items, cached.Total, nil
			}
		}
	}

	items, total, err := listVisible[models.Hotel](ctx, s.db, actor, f.Estado, f.Page, f.Limit,
		"id_hotel ASC", byDepartment(f.Departamento), nameContains(f.Q))
	if err != nil {
		return nil, 0, err
	}
	if key != "" {
		if err := SetToRedis(ctx, s.rdb, key, hotelPage{Items: items, Total: total}, hotelsCacheTTL); err != nil {
			s.logger.Error("cache hoteles: %v", err)
		}
	}
	return items, total, nil
}

func (s *CatalogService) invalidateHotels(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := BumpVersion(ctx, s.rdb, hotelsVersionKey); err != nil {
		s.logger.Error("invalidar cache hoteles: %v", err)
	}
}

func (s *CatalogService) GetHotel(ctx context.Context, actor permissions.Actor, id uint) (*models.Hotel, error) {
	return getVisible[models.Hotel](ctx, s.db, actor, id, "Hotel no encontrado.")
}

func (s *CatalogService) CreateHotel(ctx context.Context, actor permissions.Actor, in HotelInput) (*models.Hotel, error) {
	if err := requireAdmin(actor, permissions.Hotel, permissions.Create); err != nil {
		return nil, err
	}
	name, err := requiredText("nombre", in.Nombre)
	if err != nil {
		return nil, err
	}
	h := &models.Hotel{Nombre: name, Estado: lifecycleOr(in.Estado, models.Active)}
	applyHotel(h, in)
	if err := validateRating(h.Calificacion); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(h).Error; err != nil {
		return nil, errors.DB(err)
	}
	s.invalidateHotels(ctx)
	s.logger.Info("Hotel %d creado", h.IDHotel)
	return h, nil
}

func applyHotel(h *models.Hotel, in HotelInput) {
	if in.Nombre != nil && strings.TrimSpace(*in.Nombre) != "" {
		h.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Ubicacion != nil {
		h.Ubicacion = *in.Ubicacion
	}
	if in.Departamento != nil {
		h.Departamento = strings.TrimSpace(*in.Departamento)
	}
	if in.Calificacion != nil {
		h.Calificacion = *in.Calificacion
	}
	if in.URL != nil {
		h.URL = *in.URL
	}
	if in.URLImagenHotel != nil {
		h.URLImagenHotel = *in.URLImagenHotel
	}
	if in.Estado != nil {
		h.Estado = models.Lifecycle(*in.Estado)
	}
}

func validateRating(v float64) error {
	if v < 0 || v > 5 {
		return errors.Validation("La calificación debe estar entre 0 y 5.")
	}
	return nil
}

func (s *CatalogService) UpdateHotel(ctx context.Context, actor permissions.Actor, id uint, in HotelInput) (*models.Hotel, error) {
	if err := requireAdmin(actor, permissions.Hotel, permissions.Update); err != nil {
		return nil, err
	}
	h, err := getVisible[models.Hotel](ctx, s.db, actor, id, "Hotel no encontrado.")
	if err != nil {
		return nil, err
	}
	applyHotel(h, in)
	if err := validateRating(h.Calificacion); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(h).Error; err != nil {
		return nil, errors.DB(err)
	}
	s.invalidateHotels(ctx)
	return h, nil
}

func (s *CatalogService) DisableHotel(ctx context.Context, actor permissions.Actor, id uint) error {
	if err := requireAdmin(actor, permissions.Hotel, permissions.Delete); err != nil {
		return err
	}
	if err := SetLifecycle(ctx, s.db, models.Hotel{}, id, models.Disabled); err != nil {
		return err
	}
	s.invalidateHotels(ctx)
	s.logger.Info("Hotel %d desactivado por %d", id, actor.UserID)
	return nil
}

// Places

func (s *CatalogService) ListPlaces(ctx context.Context, actor permissions.Actor, f CatalogFilter) ([]models.Place, int64, error) {
	return listVisible[models.Place](ctx, s.db, actor, f.Estado, f.Page, f.Limit,
		"id_lugar ASC", byDepartment(f.Departamento), nameContains(f.Q))
}

func (s *CatalogService) GetPlace(ctx context.Context, actor permissions.Actor, id uint) (*models.Place, error) {
	return getVisible[models.Place](ctx, s.db, actor, id, "Lugar turístico no encontrado.")
}

func applyPlace(p *models.Place, in PlaceInput) {
	if in.Nombre != nil && strings.TrimSpace(*in.Nombre) != "" {
		p.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Ubicacion != nil {
		p.Ubicacion = *in.Ubicacion
	}
	if in.Departamento != nil {
		p.Departamento = strings.TrimSpace(*in.Departamento)
	}
	if in.Tipo != nil {
		p.Tipo = *in.Tipo
	}
	if in.Horario != nil {
		p.Horario = *in.Horario
	}
	if in.Descripcion != nil {
		p.Descripcion = *in.Descripcion
	}
	if in.URLImage != nil {
		p.URLImage = *in.URLImage
	}
	if in.Estado != nil {
		p.Estado = models.Lifecycle(*in.Estado)
	}
}

func (s *CatalogService) CreatePlace(ctx context.Context, actor permissions.Actor, in PlaceInput) (*models.Place, error) {
	if err := requireAdmin(actor, permissions.Place, permissions.Create); err != nil {
		return nil, err
	}
	name, err := requiredText("nombre", in.Nombre)
	if err != nil {
		return nil, err
	}
	p := &models.Place{Nombre: name, Estado: lifecycleOr(in.Estado, models.Active)}
	applyPlace(p, in)
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, errors.DB(err)
	}
	return p, nil
}

func (s *CatalogService) UpdatePlace(ctx context.Context, actor permissions.Actor, id uint, in PlaceInput) (*models.Place, error) {
	if err := requireAdmin(actor, permissions.Place, permissions.Update); err != nil {
		return nil, err
	}
	p, err := getVisible[models.Place](ctx, s.db, actor, id, "Lugar turístico no encontrado.")
	if err != nil {
		return nil, err
	}
	applyPlace(p, in)
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, errors.DB(err)
	}
	return p, nil
}

func (s *CatalogService) DisablePlace(ctx context.Context, actor permissions.Actor, id uint) error {
	if err := requireAdmin(actor, permissions.Place, permissions.Delete); err != nil {
		return err
	}
	return SetLifecycle(ctx, s.db, models.Place{}, id, models.Disabled)
}

// Packages

func (s *CatalogService) ListPackages(ctx context.Context, actor permissions.Actor, f CatalogFilter) ([]models.TourPackage, int64, error) {
	return listVisible[models.TourPackage](ctx, s.db, actor, f.Estado, f.Page, f.Limit,
		"id_paquete ASC", nameContains(f.Q))
}

func (s *CatalogService) GetPackage(ctx context.Context, actor permissions.Actor, id uint) (*models.TourPackage, error) {
	return getVisible[models.TourPackage](ctx, s.db, actor, id, "Paquete no encontrado.")
}

func (s *CatalogService) applyPackage(ctx context.Context, p *models.TourPackage, in PackageInput) error {
	if in.Nombre != nil && strings.TrimSpace(*in.Nombre) != "" {
		p.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Descripcion != nil {
		p.Descripcion = *in.Descripcion
	}
	if in.Precio != nil {
		if *in.Precio < 0 {
			return errors.Validation("El precio no puede ser negativo.")
		}
		p.Precio = *in.Precio
	}
	if in.IDHotel != nil {
		if err := s.mustExist(ctx, models.Hotel{}, *in.IDHotel, "El hotel indicado no existe."); err != nil {
			return err
		}
		p.IDHotel = in.IDHotel
	}
	if in.IDLugar != nil {
		if err := s.mustExist(ctx, models.Place{}, *in.IDLugar, "El lugar turístico indicado no existe."); err != nil {
			return err
		}
		p.IDLugar = in.IDLugar
	}
	if in.Estado != nil {
		p.Estado = models.Lifecycle(*in.Estado)
	}
	return nil
}

func (s *CatalogService) mustExist(ctx context.Context, entity models.Disableable, id interface{}, msg string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(entity).Scopes(repository.ByID(entity, id)).Count(&n).Error; err != nil {
		return errors.DB(err)
	}
	if n == 0 {
		return errors.Validation(msg)
	}
	return nil
}

// CreatePackage publishes a package and tells every active user about it
func (s *CatalogService) CreatePackage(ctx context.Context, actor permissions.Actor, in PackageInput) (*models.TourPackage, error) {
	if err := requireAdmin(actor, permissions.Package, permissions.Create); err != nil {
		return nil, err
	}
	name, err := requiredText("nombre", in.Nombre)
	if err != nil {
		return nil, err
	}
	p := &models.TourPackage{Nombre: name, Estado: lifecycleOr(in.Estado, models.Active)}
	if err := s.applyPackage(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, errors.DB(err)
	}

	if s.broadcaster != nil && p.Estado.IsActive() {
		n, err := s.broadcaster.NotifyAll(ctx, "Nuevo paquete turístico",
			fmt.Sprintf("Descubre el paquete %s por Bs %.2f.", p.Nombre, p.Precio),
			fmt.Sprintf("/paquetes/%d", p.IDPaquete))
		if err != nil {
			s.logger.Error("notificar paquete %d: %v", p.IDPaquete, err)
		} else {
			s.logger.Info("Paquete %d publicado a %d usuarios", p.IDPaquete, n)
		}
	}
	return p, nil
}

func (s *CatalogService) UpdatePackage(ctx context.Context, actor permissions.Actor, id uint, in PackageInput) (*models.TourPackage, error) {
	if err := requireAdmin(actor, permissions.Package, permissions.Update); err != nil {
		return nil, err
	}
	p, err := getVisible[models.TourPackage](ctx, s.db, actor, id, "Paquete no encontrado.")
	if err != nil {
		return nil, err
	}
	if err := s.applyPackage(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, errors.DB(err)
	}
	return p, nil
}

func (s *CatalogService) DisablePackage(ctx context.Context, actor permissions.Actor, id uint) error {
	if err := requireAdmin(actor, permissions.Package, permissions.Delete); err != nil {
		return err
	}
	return SetLifecycle(ctx, s.db, models.TourPackage{}, id, models.Disabled)
}

// Rooms

func (s *CatalogService) ListRooms(ctx context.Context, actor permissions.Actor, f RoomFilter) ([]models.Room, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.CodigoHotel != nil {
			db = db.Where("codigo_hotel = ?", *f.CodigoHotel)
		}
		return db
	}
	return listVisible[models.Room](ctx, s.db, actor, f.Disponible, f.Page, f.Limit, "num ASC", scope)
}

func (s *CatalogService) GetRoom(ctx context.Context, actor permissions.Actor, num string) (*models.Room, error) {
	return getVisible[models.Room](ctx, s.db, actor, num, "Habitación no encontrada.")
}

func (s *CatalogService) applyRoom(ctx context.Context, r *models.Room, in RoomInput) error {
	if in.Caracteristicas != nil {
		r.Caracteristicas = *in.Caracteristicas
	}
	if in.Precio != nil {
		if *in.Precio < 0 {
			return errors.Validation("El precio no puede ser negativo.")
		}
		r.Precio = *in.Precio
	}
	if in.CantHuespedes != nil {
		if *in.CantHuespedes < 1 {
			return errors.Validation("La cantidad de huéspedes debe ser al menos 1.")
		}
		r.CantHuespedes = *in.CantHuespedes
	}
	if in.CodigoHotel != nil {
		if err := s.mustExist(ctx, models.Hotel{}, *in.CodigoHotel, "El hotel indicado no existe."); err != nil {
			return err
		}
		r.CodigoHotel = *in.CodigoHotel
	}
	if in.Disponible != nil {
		r.Disponible = models.Lifecycle(*in.Disponible)
	}
	return nil
}

func (s *CatalogService) CreateRoom(ctx context.Context, actor permissions.Actor, in RoomInput) (*models.Room, error) {
	if err := requireAdmin(actor, permissions.Room, permissions.Create); err != nil {
		return nil, err
	}
	num, err := requiredText("num", in.Num)
	if err != nil {
		return nil, err
	}
	if in.CodigoHotel == nil {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "El campo codigo_hotel es obligatorio.", nil)
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Room{}).Where("num = ?", num).Count(&n).Error; err != nil {
		return nil, errors.DB(err)
	}
	if n > 0 {
		return nil, errors.NewAppError(errors.ErrCodeDBDuplicate, fmt.Sprintf("La habitación %s ya existe.", num), nil)
	}

	r := &models.Room{Num: num, CantHuespedes: 1, Disponible: lifecycleOr(in.Disponible, models.Active)}
	if err := s.applyRoom(ctx, r, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, errors.DB(err)
	}
	return r, nil
}

func (s *CatalogService) UpdateRoom(ctx context.Context, actor permissions.Actor, num string, in RoomInput) (*models.Room, error) {
	if err := requireAdmin(actor, permissions.Room, permissions.Update); err != nil {
		return nil, err
	}
	r, err := getVisible[models.Room](ctx, s.db, actor, num, "Habitación no encontrada.")
	if err != nil {
		return nil, err
	}
	if in.Num != nil && strings.TrimSpace(*in.Num) != r.Num {
		return nil, errors.Validation("El número de habitación no se puede modificar.")
	}
	if err := s.applyRoom(ctx, r, in); err != nil {
		return nil, err
	}
	r.Hotel = nil
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return nil, errors.DB(err)
	}
	s.availability.Invalidate(ctx, r.Num)
	return r, nil
}

func (s *CatalogService) DisableRoom(ctx context.Context, actor permissions.Actor, num string) error {
	if err := requireAdmin(actor, permissions.Room, permissions.Delete); err != nil {
		return err
	}
	if err := SetLifecycle(ctx, s.db, models.Room{}, num, models.Disabled); err != nil {
		return err
	}
	s.availability.Invalidate(ctx, num)
	return nil
}

// RecomputeHotelRating sets a hotel's calificacion to the average of its active reviews
func RecomputeHotelRating(ctx context.Context, db *gorm.DB, hotelID uint) error {
	var avg struct{ Avg *float64 }
	if err := db.WithContext(ctx).Model(&models.Review{}).
		Select("AVG(calificacion) AS avg").
		Where("id_hotel = ? AND estado = ?", hotelID, models.Active).
		Scan(&avg).Error; err != nil {
		return err
	}
	rating := 0.0
	if avg.Avg != nil {
		rating = *avg.Avg
	}
	return db.WithContext(ctx).Model(&models.Hotel{}).
		Where("id_hotel = ?", hotelID).Update("calificacion", rating).Error
}
