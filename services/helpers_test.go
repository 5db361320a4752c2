package services

import (
	"context"
	"sync"
	"testing"

	"munaybol/constants"
	"munaybol/models"
	"munaybol/permissions"
	"munaybol/services/logger"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, correo, rol string) *models.User {
	t.Helper()
	hash, err := HashPassword("secreto123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{Nombre: correo, Correo: correo, Contrasenia: hash, Rol: rol, Estado: models.Active}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedHotel(t *testing.T, db *gorm.DB, nombre, departamento string) *models.Hotel {
	t.Helper()
	h := &models.Hotel{Nombre: nombre, Departamento: departamento, Calificacion: 4, Estado: models.Active}
	if err := db.Create(h).Error; err != nil {
		t.Fatalf("seed hotel: %v", err)
	}
	return h
}

func seedRoom(t *testing.T, db *gorm.DB, num string, hotel uint) *models.Room {
	t.Helper()
	r := &models.Room{Num: num, Precio: 250, CantHuespedes: 2, CodigoHotel: hotel, Disponible: models.Active}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return r
}

func seedReservation(t *testing.T, db *gorm.DB, room *models.Room, user uint, from, to string, estado models.Lifecycle) *models.Reservation {
	t.Helper()
	r := &models.Reservation{
		NumHabitacion:  room.Num,
		CodigoHotel:    room.CodigoHotel,
		IDUsuario:      user,
		FechaReserva:   models.MustDate(from),
		FechaCaducidad: models.MustDate(to),
		Estado:         estado,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	return r
}

func actorOf(u *models.User) permissions.Actor {
	return permissions.Actor{UserID: u.ID, Role: u.Rol}
}

func superadmin(t *testing.T, db *gorm.DB) permissions.Actor {
	return actorOf(seedUser(t, db, "admin@munaybol.bo", constants.RoleSuperAdmin))
}

type sentNotification struct {
	UserID uint
	Title  string
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []sentNotification
	alerts []string
}

func (f *fakeNotifier) Notify(_ context.Context, userID uint, title, _, _ string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{UserID: userID, Title: title})
	return &models.Notification{}, nil
}

func (f *fakeNotifier) AlertAdmins(_ context.Context, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, text)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }
func boolPtr(b bool) *bool    { return &b }
func datePtr(s string) *models.Date {
	d := models.MustDate(s)
	return &d
}

var nopLog = logger.Nop{}
