package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestLifecycleScan(t *testing.T) {
	tests := []struct {
		in   interface{}
		want Lifecycle
	}{
		{true, Active},
		{false, Disabled},
		{int64(1), Active},
		{int64(0), Disabled},
		{[]byte("1"), Active},
		{[]byte("0"), Disabled},
		{"true", Active},
		{"false", Disabled},
		{nil, Disabled},
	}
	for _, tt := range tests {
		l := !tt.want
		if err := l.Scan(tt.in); err != nil {
			t.Fatalf("Scan(%#v): %v", tt.in, err)
		}
		if l != tt.want {
			t.Fatalf("Scan(%#v) = %v, want %v", tt.in, l, tt.want)
		}
	}

	var l Lifecycle
	if err := l.Scan("quizás"); err == nil {
		t.Fatal("garbage accepted")
	}
	if err := l.Scan(3.5); err == nil {
		t.Fatal("float accepted")
	}
}

func TestLifecycleRoundTripSQLite(t *testing.T) {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()
	if err := db.AutoMigrate(&Hotel{}, &Room{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hotel := &Hotel{Nombre: "Hotel Illimani", Departamento: "La Paz", Estado: Active}
	if err := db.Create(hotel).Error; err != nil {
		t.Fatalf("create hotel: %v", err)
	}
	for _, r := range []Room{
		{Num: "H-101", Precio: 250, CantHuespedes: 2, CodigoHotel: hotel.IDHotel, Disponible: Active},
		{Num: "H-102", Precio: 250, CantHuespedes: 2, CodigoHotel: hotel.IDHotel, Disponible: Disabled},
	} {
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("create room: %v", err)
		}
	}

	var active, disabled Room
	if err := db.Take(&active, "num = ?", "H-101").Error; err != nil {
		t.Fatalf("take H-101: %v", err)
	}
	if err := db.Take(&disabled, "num = ?", "H-102").Error; err != nil {
		t.Fatalf("take H-102: %v", err)
	}
	if !active.Disponible.IsActive() || disabled.Disponible.IsActive() {
		t.Fatalf("disponible = %v / %v", active.Disponible, disabled.Disponible)
	}

	var n int64
	if err := db.Model(&Room{}).Where("disponible = ?", Active).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("active rooms = %d, %v", n, err)
	}

	var h Hotel
	if err := db.Take(&h, hotel.IDHotel).Error; err != nil || !h.Estado.IsActive() {
		t.Fatalf("hotel = %+v, %v", h, err)
	}
}
