package services

import (
	"context"
	stderrors "errors"
	"testing"

	"munaybol/constants"
	"munaybol/errors"
	"munaybol/models"
	"munaybol/permissions"

	"gorm.io/gorm"
)

type fakeProvider struct {
	identity *OAuthIdentity
	err      error
}

func (f fakeProvider) Identify(context.Context, string) (*OAuthIdentity, error) {
	return f.identity, f.err
}

func newAuth(t *testing.T, google IdentityProvider) (*AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewAuthService(AuthServiceOptions{
		DB:     db,
		Tokens: NewTokenService("access-secret", "refresh-secret"),
		Logger: nopLog,
		Google: google,
	}), db
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuth(t, nil)
	ctx := context.Background()

	u, err := auth.Register(ctx, RegisterInput{Nombre: "Ana", Correo: " Ana@MunayBol.bo ", Contrasenia: "secreto123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Rol != constants.RoleUser || u.Correo != "ana@munaybol.bo" || u.Contrasenia == "secreto123" {
		t.Fatalf("unexpected user %+v", u)
	}

	if _, err := auth.Register(ctx, RegisterInput{Nombre: "Ana", Correo: "ana@munaybol.bo", Contrasenia: "secreto123"}); !errors.HasCode(err, errors.ErrCodeUserExists) {
		t.Fatalf("duplicate email: %v", err)
	}
	if _, err := auth.Register(ctx, RegisterInput{Nombre: "Luis", Correo: "luis@munaybol.bo", Contrasenia: "123"}); err == nil {
		t.Fatal("short password must be rejected")
	}

	res, err := auth.Login(ctx, "ana@munaybol.bo", "secreto123")
	if err != nil || res.Access == "" || res.Refresh == "" || res.Usuario.ID != u.ID {
		t.Fatalf("Login: %+v %v", res, err)
	}
	if _, err := auth.Login(ctx, "ana@munaybol.bo", "otra"); !errors.HasCode(err, errors.ErrCodeInvalidPassword) {
		t.Fatalf("bad password: %v", err)
	}
	if _, err := auth.Login(ctx, "nadie@munaybol.bo", "secreto123"); !errors.HasCode(err, errors.ErrCodeInvalidPassword) {
		t.Fatalf("unknown email: %v", err)
	}
	if _, err := auth.LoginSuperAdmin(ctx, "ana@munaybol.bo", "secreto123"); !errors.HasCode(err, errors.ErrCodeForbidden) {
		t.Fatalf("superadmin login by user: %v", err)
	}

	access, err := auth.Refresh(ctx, res.Refresh)
	if err != nil || access == "" {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := auth.Refresh(ctx, res.Access); !errors.HasCode(err, errors.ErrCodeInvalidToken) {
		t.Fatalf("access token used as refresh: %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	auth, db := newAuth(t, nil)
	u := seedUser(t, db, "ana@munaybol.bo", constants.RoleUser)
	if err := db.Model(u).Update("estado", false).Error; err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := auth.Login(context.Background(), "ana@munaybol.bo", "secreto123"); !errors.HasCode(err, errors.ErrCodeInactiveUser) {
		t.Fatalf("expected inactive user, got %v", err)
	}
}

func TestRegisterSuperAdminBootstrap(t *testing.T) {
	auth, db := newAuth(t, nil)
	ctx := context.Background()

	first, err := auth.RegisterSuperAdmin(ctx, permissions.Anonymous(), RegisterInput{Nombre: "Root", Correo: "root@munaybol.bo", Contrasenia: "secreto123"})
	if err != nil || first.Rol != constants.RoleSuperAdmin {
		t.Fatalf("bootstrap: %+v %v", first, err)
	}
	if _, err := auth.RegisterSuperAdmin(ctx, permissions.Anonymous(), RegisterInput{Nombre: "X", Correo: "x@munaybol.bo", Contrasenia: "secreto123"}); !errors.HasCode(err, errors.ErrCodeForbidden) {
		t.Fatalf("second anonymous bootstrap must fail, got %v", err)
	}
	user := seedUser(t, db, "ana@munaybol.bo", constants.RoleUser)
	if _, err := auth.RegisterSuperAdmin(ctx, actorOf(user), RegisterInput{Nombre: "X", Correo: "x@munaybol.bo", Contrasenia: "secreto123"}); !errors.HasCode(err, errors.ErrCodeForbidden) {
		t.Fatalf("user cannot create superadmins, got %v", err)
	}
	if _, err := auth.RegisterSuperAdmin(ctx, actorOf(first), RegisterInput{Nombre: "X", Correo: "x@munaybol.bo", Contrasenia: "secreto123"}); err != nil {
		t.Fatalf("superadmin creates superadmin: %v", err)
	}
}

func TestLoginWithProvider(t *testing.T) {
	auth, db := newAuth(t, fakeProvider{identity: &OAuthIdentity{Email: "Viajera@Gmail.com", Name: "Viajera"}})
	ctx := context.Background()

	res, err := auth.LoginWithGoogle(ctx, "id-token")
	if err != nil {
		t.Fatalf("LoginWithGoogle: %v", err)
	}
	if res.Usuario.Correo != "viajera@gmail.com" || res.Usuario.Rol != constants.RoleUser {
		t.Fatalf("unexpected user %+v", res.Usuario)
	}
	again, err := auth.LoginWithGoogle(ctx, "id-token")
	if err != nil || again.Usuario.ID != res.Usuario.ID {
		t.Fatalf("second login must reuse the account: %v", err)
	}
	var n int64
	db.Model(&models.User{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected one user, got %d", n)
	}

	if _, err := auth.LoginWithGithub(ctx, "code"); !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Fatalf("unconfigured provider: %v", err)
	}

	failing, _ := newAuth(t, fakeProvider{err: stderrors.New("bad token")})
	if _, err := failing.LoginWithGoogle(ctx, "id-token"); !errors.HasCode(err, errors.ErrCodeInvalidToken) {
		t.Fatalf("provider failure: %v", err)
	}
}
