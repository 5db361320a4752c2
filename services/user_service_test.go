package services

import (
	"context"
	"testing"

	"munaybol/constants"
	"munaybol/errors"
	"munaybol/models"
)

func TestUserSelfUpdate(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(UserServiceOptions{DB: db, Logger: nopLog})
	ctx := context.Background()
	ana := seedUser(t, db, "ana@munaybol.bo", constants.RoleUser)
	luis := seedUser(t, db, "luis@munaybol.bo", constants.RoleUser)

	got, err := users.Update(ctx, actorOf(ana), ana.ID, UserUpdate{Nombre: strPtr("Ana María"), Pais: strPtr("Bolivia")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Nombre != "Ana María" || got.Pais != "Bolivia" {
		t.Fatalf("unexpected profile %+v", got)
	}

	if _, err := users.Update(ctx, actorOf(ana), ana.ID, UserUpdate{Rol: strPtr(constants.RoleSuperAdmin)}); !errors.HasCode(err, errors.ErrCodeRestrictedField) {
		t.Fatalf("self promotion must be restricted, got %v", err)
	}
	if _, err := users.Update(ctx, actorOf(ana), ana.ID, UserUpdate{Rol: strPtr(constants.RoleUser)}); err != nil {
		t.Fatalf("unchanged role is not a change, got %v", err)
	}
	if _, err := users.Update(ctx, actorOf(ana), luis.ID, UserUpdate{Nombre: strPtr("x")}); !errors.HasCode(err, errors.ErrCodeForbidden) {
		t.Fatalf("editing someone else must be forbidden, got %v", err)
	}
	if _, err := users.Get(ctx, actorOf(ana), luis.ID); !errors.HasCode(err, errors.ErrCodeUserNotFound) {
		t.Fatalf("reading someone else must look missing, got %v", err)
	}
	if _, _, err := users.List(ctx, actorOf(ana), UserFilter{}); err == nil {
		t.Fatal("users cannot list accounts")
	}
}

func TestUserAdminUpdate(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(UserServiceOptions{DB: db, Logger: nopLog})
	ctx := context.Background()
	admin := superadmin(t, db)
	ana := seedUser(t, db, "ana@munaybol.bo", constants.RoleUser)
	seedUser(t, db, "luis@munaybol.bo", constants.RoleUser)

	if _, err := users.Update(ctx, admin, ana.ID, UserUpdate{Correo: strPtr("luis@munaybol.bo")}); !errors.HasCode(err, errors.ErrCodeUserExists) {
		t.Fatalf("taken email: %v", err)
	}
	got, err := users.Update(ctx, admin, ana.ID, UserUpdate{Rol: strPtr(constants.RoleSuperAdmin), Estado: boolPtr(false)})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if got.Rol != constants.RoleSuperAdmin || got.Estado.IsActive() {
		t.Fatalf("unexpected user %+v", got)
	}

	list, total, err := users.List(ctx, admin, UserFilter{Rol: constants.RoleUser})
	if err != nil || total != 1 || len(list) != 1 {
		t.Fatalf("List by rol: total=%d err=%v", total, err)
	}

	if err := users.Disable(ctx, admin, list[0].ID); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	var stored models.User
	db.Where("id = ?", list[0].ID).Take(&stored)
	if stored.Estado.IsActive() {
		t.Fatal("disabled user must be inactive")
	}
}
