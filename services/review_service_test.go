package services

import (
	"context"
	"testing"

	"munaybol/constants"
	"munaybol/errors"
	"munaybol/models"
	"munaybol/permissions"
)

func intPtr(i int) *int { return &i }

func hotelRating(t *testing.T, svc *ReviewService, id uint) float64 {
	t.Helper()
	var h models.Hotel
	if err := svc.db.First(&h, id).Error; err != nil {
		t.Fatalf("load hotel: %v", err)
	}
	return h.Calificacion
}

func TestReviewCreateUpdatesRating(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, nopLog)
	ctx := context.Background()
	h := seedHotel(t, db, "Hotel Illimani", "La Paz")
	ana := actorOf(seedUser(t, db, "ana@munaybol.bo", constants.RoleUser))
	luis := actorOf(seedUser(t, db, "luis@munaybol.bo", constants.RoleUser))

	first, err := svc.Create(ctx, ana, ReviewInput{IDHotel: uintPtr(h.IDHotel), Calificacion: intPtr(5), Comentario: strPtr("  Excelente vista  ")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Comentario != "Excelente vista" || first.IDUsuario != ana.UserID {
		t.Fatalf("review = %+v", first)
	}
	if _, err := svc.Create(ctx, luis, ReviewInput{IDHotel: uintPtr(h.IDHotel), Calificacion: intPtr(2)}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := hotelRating(t, svc, h.IDHotel); got != 3.5 {
		t.Fatalf("rating = %v, want 3.5", got)
	}

	if err := svc.Disable(ctx, luis, first.IDReview); !errors.HasCode(err, errors.ErrCodeForbidden) {
		t.Fatalf("foreign disable: got %v, want FORBIDDEN", err)
	}
	if err := svc.Disable(ctx, ana, first.IDReview); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if got := hotelRating(t, svc, h.IDHotel); got != 2 {
		t.Fatalf("rating after disable = %v, want 2", got)
	}
	if _, err := svc.Get(ctx, permissions.Anonymous(), first.IDReview); !errors.HasCode(err, errors.ErrCodeDBNotFound) {
		t.Fatalf("disabled review visible: %v", err)
	}
}

func TestReviewRejections(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, nopLog)
	ctx := context.Background()
	h := seedHotel(t, db, "Hotel Illimani", "La Paz")
	ana := actorOf(seedUser(t, db, "ana@munaybol.bo", constants.RoleUser))

	tests := []struct {
		name  string
		actor permissions.Actor
		in    ReviewInput
		code  errors.ErrorCode
	}{
		{"anonymous", permissions.Anonymous(), ReviewInput{IDHotel: uintPtr(h.IDHotel), Calificacion: intPtr(4)}, errors.ErrCodeUnauthorized},
		{"missing rating", ana, ReviewInput{IDHotel: uintPtr(h.IDHotel)}, errors.ErrCodeRequiredField},
		{"rating out of range", ana, ReviewInput{IDHotel: uintPtr(h.IDHotel), Calificacion: intPtr(6)}, errors.ErrCodeValidation},
		{"no target", ana, ReviewInput{Calificacion: intPtr(4)}, errors.ErrCodeValidation},
		{"two targets", ana, ReviewInput{IDHotel: uintPtr(h.IDHotel), IDLugar: uintPtr(1), Calificacion: intPtr(4)}, errors.ErrCodeValidation},
		{"unknown hotel", ana, ReviewInput{IDHotel: uintPtr(999), Calificacion: intPtr(4)}, errors.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.actor, tt.in)
			if !errors.HasCode(err, tt.code) {
				t.Fatalf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReviewUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, nopLog)
	ctx := context.Background()
	h := seedHotel(t, db, "Hotel Illimani", "La Paz")
	ana := actorOf(seedUser(t, db, "ana@munaybol.bo", constants.RoleUser))
	admin := superadmin(t, db)

	r, err := svc.Create(ctx, ana, ReviewInput{IDHotel: uintPtr(h.IDHotel), Calificacion: intPtr(3)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(ctx, ana, r.IDReview, ReviewInput{IDLugar: uintPtr(1)}); !errors.HasCode(err, errors.ErrCodeRestrictedField) {
		t.Fatalf("retarget: got %v, want RESTRICTED_FIELD", err)
	}
	if _, err := svc.Update(ctx, ana, r.IDReview, ReviewInput{Estado: boolPtr(false)}); !errors.HasCode(err, errors.ErrCodeRestrictedField) {
		t.Fatalf("owner estado: got %v, want RESTRICTED_FIELD", err)
	}

	updated, err := svc.Update(ctx, ana, r.IDReview, ReviewInput{Calificacion: intPtr(5)})
	if err != nil || updated.Calificacion != 5 {
		t.Fatalf("Update: %+v %v", updated, err)
	}
	if got := hotelRating(t, svc, h.IDHotel); got != 5 {
		t.Fatalf("rating = %v, want 5", got)
	}

	if _, err := svc.Update(ctx, admin, r.IDReview, ReviewInput{Estado: boolPtr(false)}); err != nil {
		t.Fatalf("admin estado: %v", err)
	}
	if got := hotelRating(t, svc, h.IDHotel); got != 0 {
		t.Fatalf("rating without active reviews = %v, want 0", got)
	}
}
