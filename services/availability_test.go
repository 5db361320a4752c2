package services

import (
	"context"
	"testing"

	"munaybol/errors"
	"munaybol/models"
	"munaybol/permissions"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func iv(from, to string) models.Interval {
	return models.Interval{Start: models.MustDate(from), End: models.MustDate(to)}
}

func TestNextAvailable(t *testing.T) {
	cases := []struct {
		name      string
		from      string
		intervals []models.Interval
		want      string
	}{
		{"no reservations", "2025-03-01", nil, "2025-03-01"},
		{"reservation after from", "2025-03-01", []models.Interval{iv("2025-03-10", "2025-03-15")}, "2025-03-01"},
		{"from inside reservation", "2025-03-12", []models.Interval{iv("2025-03-10", "2025-03-15")}, "2025-03-16"},
		{"from on last day", "2025-03-15", []models.Interval{iv("2025-03-10", "2025-03-15")}, "2025-03-16"},
		{"adjacent chain", "2025-03-10", []models.Interval{iv("2025-03-10", "2025-03-12"), iv("2025-03-13", "2025-03-14")}, "2025-03-15"},
		{"gap between", "2025-03-10", []models.Interval{iv("2025-03-10", "2025-03-12"), iv("2025-03-14", "2025-03-20")}, "2025-03-13"},
		{"single day", "2025-03-05", []models.Interval{iv("2025-03-05", "2025-03-05")}, "2025-03-06"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextAvailable(models.MustDate(tc.from), tc.intervals)
			if got.String() != tc.want {
				t.Fatalf("NextAvailable = %s, want %s", got, tc.want)
			}
		})
	}
}

func newAvailability(t *testing.T, withRedis bool) (*AvailabilityService, *miniredis.Miniredis) {
	t.Helper()
	db := newTestDB(t)
	opts := AvailabilityServiceOptions{DB: db, Logger: nopLog}
	var mr *miniredis.Miniredis
	if withRedis {
		mr = miniredis.RunT(t)
		opts.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}
	return NewAvailabilityService(opts), mr
}

func TestAvailabilityQuery(t *testing.T) {
	svc, _ := newAvailability(t, false)
	ctx := context.Background()

	hotel := seedHotel(t, svc.db, "Hotel Illimani", "La Paz")
	room := seedRoom(t, svc.db, "H-101", hotel.IDHotel)
	user := seedUser(t, svc.db, "ana@munaybol.bo", "usuario")
	seedReservation(t, svc.db, room, user.ID, "2025-03-10", "2025-03-15", models.Active)
	seedReservation(t, svc.db, room, user.ID, "2025-03-20", "2025-03-22", models.Disabled)

	out, err := svc.Query(ctx, permissions.Anonymous(), "H-101", "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(out.IntervalosReservados) != 1 {
		t.Fatalf("expected one active interval, got %+v", out.IntervalosReservados)
	}
	got := out.IntervalosReservados[0]
	if got.Start.String() != "2025-03-10" || got.End.String() != "2025-03-15" {
		t.Fatalf("unexpected interval %s..%s", got.Start, got.End)
	}
	if out.NextAvailableFrom.String() != "2025-03-01" {
		t.Fatalf("next_available_from = %s", out.NextAvailableFrom)
	}

	out, err = svc.Query(ctx, permissions.Anonymous(), "H-101", "2025-03-12", "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if out.NextAvailableFrom.String() != "2025-03-16" {
		t.Fatalf("next_available_from = %s, want 2025-03-16", out.NextAvailableFrom)
	}
	if out.Hasta.String() != "2025-06-10" {
		t.Fatalf("hasta should default to desde + 90 days, got %s", out.Hasta)
	}
}

// H-101 booked 10..15 March: a window opening before the booking is free on its first day,
// a window opening inside it frees up the day after checkout.
func TestAvailabilityWorkedExample(t *testing.T) {
	svc, _ := newAvailability(t, false)
	ctx := context.Background()
	hotel := seedHotel(t, svc.db, "Hotel Illimani", "La Paz")
	room := seedRoom(t, svc.db, "H-101", hotel.IDHotel)
	user := seedUser(t, svc.db, "ana@munaybol.bo", "usuario")
	seedReservation(t, svc.db, room, user.ID, "2025-03-10", "2025-03-15", models.Active)

	cases := []struct {
		name, from, to string
		want           string
	}{
		{"window starts before booking", "2025-03-01", "2025-03-31", "2025-03-01"},
		{"window starts inside booking", "2025-03-12", "2025-03-31", "2025-03-16"},
		{"window starts on checkout day", "2025-03-15", "2025-03-31", "2025-03-16"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := svc.Query(ctx, permissions.Anonymous(), "H-101", tc.from, tc.to)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(out.IntervalosReservados) != 1 || out.IntervalosReservados[0].Start.String() != "2025-03-10" ||
				out.IntervalosReservados[0].End.String() != "2025-03-15" {
				t.Fatalf("intervalos = %+v", out.IntervalosReservados)
			}
			if out.NextAvailableFrom.String() != tc.want {
				t.Fatalf("next_available_from = %s, want %s", out.NextAvailableFrom, tc.want)
			}
		})
	}
}

func TestAvailabilityQueryErrors(t *testing.T) {
	svc, _ := newAvailability(t, false)
	ctx := context.Background()
	hotel := seedHotel(t, svc.db, "Hotel Illimani", "La Paz")
	seedRoom(t, svc.db, "H-101", hotel.IDHotel)

	if _, err := svc.Query(ctx, permissions.Anonymous(), "H-999", "", ""); !errors.HasCode(err, errors.ErrCodeDBNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Query(ctx, permissions.Anonymous(), "H-101", "2025-03-10", "2025-03-01"); !errors.HasCode(err, errors.ErrCodeInvertedRange) {
		t.Fatalf("expected inverted range, got %v", err)
	}
	if _, err := svc.Query(ctx, permissions.Anonymous(), "H-101", "10/03/2025", ""); !errors.HasCode(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("expected invalid format, got %v", err)
	}
}

func TestAvailabilityCacheInvalidation(t *testing.T) {
	svc, _ := newAvailability(t, true)
	ctx := context.Background()
	hotel := seedHotel(t, svc.db, "Hotel Illimani", "La Paz")
	room := seedRoom(t, svc.db, "H-101", hotel.IDHotel)
	user := seedUser(t, svc.db, "ana@munaybol.bo", "usuario")

	first, err := svc.Query(ctx, permissions.Anonymous(), "H-101", "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(first.IntervalosReservados) != 0 {
		t.Fatalf("expected empty room, got %+v", first.IntervalosReservados)
	}

	// written behind the service's back: the cached answer is still served
	seedReservation(t, svc.db, room, user.ID, "2025-03-10", "2025-03-15", models.Active)
	cached, err := svc.Query(ctx, permissions.Anonymous(), "H-101", "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(cached.IntervalosReservados) != 0 {
		t.Fatalf("expected cached answer, got %+v", cached.IntervalosReservados)
	}

	svc.Invalidate(ctx, "H-101")
	fresh, err := svc.Query(ctx, permissions.Anonymous(), "H-101", "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(fresh.IntervalosReservados) != 1 {
		t.Fatalf("expected fresh answer after invalidation, got %+v", fresh.IntervalosReservados)
	}
}
