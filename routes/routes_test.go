package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"munaybol/config"
	"munaybol/constants"
	"munaybol/models"
	"munaybol/services"
	"munaybol/services/chat"
	"munaybol/services/logger"
	"munaybol/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Code       int             `json:"code"`
	Mess       string          `json:"mess"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
	} `json:"pagination"`
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	tokens *services.TokenService
}

type staticGenerator string

func (g staticGenerator) Chat(context.Context, []chat.Message) (string, error) {
	return string(g), nil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logger.Nop{}
	tokens := services.NewTokenService("access-secret", "refresh-secret")
	m := melody.New()
	hub := notification.NewHub(m, log)
	t.Cleanup(func() { hub.Close() })
	notifications := notification.NewService(notification.ServiceOptions{DB: db, Logger: log, Publisher: hub})
	availability := services.NewAvailabilityService(services.AvailabilityServiceOptions{DB: db, Logger: log})
	composer := chat.NewComposer(chat.ComposerOptions{
		Dataset: chat.NewDataset(chat.RawDataset{
			Departamentos: []chat.Department{{Nombre: "Oruro", FechaAniversario: "10 de febrero", ComidaTradicional: "Charquekan"}},
		}),
		Generator: staticGenerator("¡Bienvenido a Bolivia!"),
	})

	router := config.NewRouter(config.Settings{})
	SetupRoutes(router, Deps{
		Logger: log,
		Tokens: tokens,
		Auth:   services.NewAuthService(services.AuthServiceOptions{DB: db, Tokens: tokens, Logger: log}),
		Users:  services.NewUserService(services.UserServiceOptions{DB: db, Logger: log}),
		Catalog: services.NewCatalogService(services.CatalogServiceOptions{
			DB: db, Logger: log, Availability: availability, Broadcaster: notifications,
		}),
		Availability: availability,
		Reservations: services.NewReservationService(services.ReservationServiceOptions{
			DB: db, Logger: log, Availability: availability, Notifier: notifications,
		}),
		Reviews:       services.NewReviewService(db, log),
		Payments:      services.NewPaymentService(db, log),
		Uploads:       services.NewUploadService(nil, log),
		Chat:          services.NewChatService(db, composer, log),
		Notifications: notifications,
		Hub:           hub,
	})
	return &testServer{t: t, db: db, router: router, tokens: tokens}
}

func (s *testServer) user(correo, rol string) (*models.User, string) {
	s.t.Helper()
	hash, err := services.HashPassword("secreto123")
	if err != nil {
		s.t.Fatalf("hash: %v", err)
	}
	u := &models.User{Nombre: correo, Correo: correo, Contrasenia: hash, Rol: rol, Estado: models.Active}
	if err := s.db.Create(u).Error; err != nil {
		s.t.Fatalf("seed user: %v", err)
	}
	tok, err := s.tokens.GenerateToken(services.UserInfo{UserId: u.ID, Role: rol}, true)
	if err != nil {
		s.t.Fatalf("token: %v", err)
	}
	return u, tok
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
	return w, env
}

func (s *testServer) expect(method, path, token string, body interface{}, status int) envelope {
	s.t.Helper()
	w, env := s.do(method, path, token, body)
	if w.Code != status {
		s.t.Fatalf("%s %s: status %d, want %d (%s)", method, path, w.Code, status, w.Body.String())
	}
	return env
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodGet, "/ping", "", nil)
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Fatalf("ping: %d %q", w.Code, w.Body.String())
	}
}

func TestRegisterLoginMe(t *testing.T) {
	s := newTestServer(t)

	s.expect(http.MethodPost, "/api/usuarios/registro/", "", map[string]string{
		"nombre": "Ana", "correo": "ana@munaybol.bo", "contrasenia": "secreto123", "pais": "Bolivia",
	}, http.StatusCreated)
	s.expect(http.MethodPost, "/api/usuarios/registro/", "", map[string]string{
		"nombre": "Ana", "correo": "no-es-correo", "contrasenia": "secreto123",
	}, http.StatusBadRequest)

	s.expect(http.MethodPost, "/api/usuarios/login/", "", map[string]string{
		"correo": "ana@munaybol.bo", "contrasenia": "incorrecta",
	}, http.StatusUnauthorized)
	env := s.expect(http.MethodPost, "/api/usuarios/login/", "", map[string]string{
		"correo": "ana@munaybol.bo", "contrasenia": "secreto123",
	}, http.StatusOK)

	var login services.AuthResult
	if err := json.Unmarshal(env.Data, &login); err != nil || login.Access == "" || login.Refresh == "" {
		t.Fatalf("login data = %s (%v)", env.Data, err)
	}

	env = s.expect(http.MethodGet, "/api/usuarios/me/", login.Access, nil, http.StatusOK)
	var me models.User
	json.Unmarshal(env.Data, &me)
	if me.Correo != "ana@munaybol.bo" || me.Rol != constants.RoleUser {
		t.Fatalf("me = %+v", me)
	}

	env = s.expect(http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{"refresh": login.Refresh}, http.StatusOK)
	if !bytes.Contains(env.Data, []byte(`"access"`)) {
		t.Fatalf("refresh data = %s", env.Data)
	}
	s.expect(http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{"refresh": login.Access}, http.StatusUnauthorized)

	s.expect(http.MethodGet, "/api/usuarios/", login.Access, nil, http.StatusForbidden)
}

func TestCatalogPermissions(t *testing.T) {
	s := newTestServer(t)
	_, userTok := s.user("ana@munaybol.bo", constants.RoleUser)
	_, adminTok := s.user("admin@munaybol.bo", constants.RoleSuperAdmin)
	hotel := map[string]interface{}{"nombre": "Hotel Illimani", "departamento": "La Paz", "calificacion": 4.5}

	s.expect(http.MethodPost, "/api/hoteles/", "", hotel, http.StatusUnauthorized)
	s.expect(http.MethodPost, "/api/hoteles/", userTok, hotel, http.StatusForbidden)
	env := s.expect(http.MethodPost, "/api/hoteles/", adminTok, hotel, http.StatusCreated)

	var created models.Hotel
	json.Unmarshal(env.Data, &created)
	if created.IDHotel == 0 || !created.Estado.IsActive() {
		t.Fatalf("created = %+v", created)
	}

	env = s.expect(http.MethodGet, "/api/hoteles/?departamento=la%20paz", "", nil, http.StatusOK)
	if env.Pagination == nil || env.Pagination.Total != 1 || env.Pagination.Page != 1 {
		t.Fatalf("pagination = %+v", env.Pagination)
	}

	s.expect(http.MethodGet, "/api/hoteles/abc/", "", nil, http.StatusNotFound)
	s.expect(http.MethodDelete, "/api/hoteles/1/", userTok, nil, http.StatusForbidden)
	env = s.expect(http.MethodDelete, "/api/hoteles/1/", adminTok, nil, http.StatusOK)
	if env.Mess != "Hotel desactivado correctamente" {
		t.Fatalf("mess = %q", env.Mess)
	}
	s.expect(http.MethodGet, "/api/hoteles/1/", "", nil, http.StatusNotFound)
	s.expect(http.MethodGet, "/api/hoteles/1/", adminTok, nil, http.StatusOK)

	s.expect(http.MethodGet, "/api/hoteles/", "Bearer-roto", nil, http.StatusUnauthorized)
}

func TestReservationFlow(t *testing.T) {
	s := newTestServer(t)
	ana, anaTok := s.user("ana@munaybol.bo", constants.RoleUser)
	_, luisTok := s.user("luis@munaybol.bo", constants.RoleUser)
	_, adminTok := s.user("admin@munaybol.bo", constants.RoleSuperAdmin)

	s.expect(http.MethodPost, "/api/hoteles/", adminTok, map[string]interface{}{"nombre": "Hotel Illimani"}, http.StatusCreated)
	s.expect(http.MethodPost, "/api/habitaciones/", adminTok, map[string]interface{}{
		"num": "H-101", "precio": 250, "cant_huespedes": 2, "codigo_hotel": 1,
	}, http.StatusCreated)

	booking := map[string]interface{}{
		"num_habitacion": "H-101", "fecha_reserva": "2025-03-10", "fecha_caducidad": "2025-03-15",
	}
	s.expect(http.MethodPost, "/api/reservas/", "", booking, http.StatusUnauthorized)
	env := s.expect(http.MethodPost, "/api/reservas/", anaTok, booking, http.StatusCreated)
	var r models.Reservation
	json.Unmarshal(env.Data, &r)
	if r.IDUsuario != ana.ID || !r.Estado.IsActive() {
		t.Fatalf("reservation = %+v", r)
	}

	env = s.expect(http.MethodPost, "/api/reservas/", luisTok, map[string]interface{}{
		"num_habitacion": "H-101", "fecha_reserva": "2025-03-15", "fecha_caducidad": "2025-03-18",
	}, http.StatusBadRequest)
	if env.Error != "OVERLAP" {
		t.Fatalf("error = %q, want OVERLAP", env.Error)
	}
	s.expect(http.MethodPost, "/api/reservas/", luisTok, map[string]interface{}{
		"num_habitacion": "H-101", "fecha_reserva": "2025-03-10", "fecha_caducidad": "2025-13-01",
	}, http.StatusBadRequest)

	env = s.expect(http.MethodGet, "/api/habitaciones/H-101/disponibilidad/?desde=2025-03-01&hasta=2025-03-31", "", nil, http.StatusOK)
	var avail services.Availability
	json.Unmarshal(env.Data, &avail)
	if len(avail.IntervalosReservados) != 1 || avail.NextAvailableFrom.String() != "2025-03-01" {
		t.Fatalf("availability = %+v", avail)
	}

	path := "/api/reservas/1/"
	s.expect(http.MethodGet, path, luisTok, nil, http.StatusNotFound)
	s.expect(http.MethodPatch, path, luisTok, map[string]interface{}{"fecha_caducidad": "2025-03-16"}, http.StatusForbidden)
	env = s.expect(http.MethodPatch, path, anaTok, map[string]interface{}{"estado": false}, http.StatusBadRequest)
	if env.Error != "RESTRICTED_FIELD" {
		t.Fatalf("error = %q, want RESTRICTED_FIELD", env.Error)
	}
	s.expect(http.MethodPatch, path, anaTok, map[string]interface{}{"fecha_caducidad": "2025-03-16"}, http.StatusOK)

	env = s.expect(http.MethodPost, path+"cancelar/", anaTok, nil, http.StatusOK)
	if env.Mess != "Reserva cancelada correctamente" {
		t.Fatalf("cancel mess = %q", env.Mess)
	}
	env = s.expect(http.MethodDelete, path, anaTok, nil, http.StatusOK)
	if env.Mess != "La reserva ya estaba cancelada" {
		t.Fatalf("second cancel mess = %q", env.Mess)
	}
	env = s.expect(http.MethodPost, path+"reactivar/", anaTok, nil, http.StatusOK)
	if env.Mess != "Reserva reactivada correctamente" {
		t.Fatalf("reactivate mess = %q", env.Mess)
	}

	env = s.expect(http.MethodGet, "/api/notifications/", anaTok, nil, http.StatusOK)
	if env.Pagination == nil || env.Pagination.Total < 2 {
		t.Fatalf("notifications = %+v", env.Pagination)
	}
}

func TestChatGenerateSetsSessionHeader(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/llm/generate/", "", map[string]string{"prompt": "Hola"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var reply services.ChatReply
	json.Unmarshal(env.Data, &reply)
	if reply.Reply == "" || w.Header().Get("X-Session-ID") != reply.ChatID {
		t.Fatalf("reply = %+v header %q", reply, w.Header().Get("X-Session-ID"))
	}

	s.expect(http.MethodGet, "/api/chat/sessions/"+reply.ChatID+"/messages/", "", nil, http.StatusOK)
	s.expect(http.MethodGet, "/api/chat/sessions/", "", nil, http.StatusUnauthorized)
	s.expect(http.MethodPost, "/api/llm/generate/", "", map[string]string{"prompt": ""}, http.StatusBadRequest)
}

func TestUploadRequiresSuperAdmin(t *testing.T) {
	s := newTestServer(t)
	_, userTok := s.user("ana@munaybol.bo", constants.RoleUser)
	s.expect(http.MethodPost, "/api/uploads/imagen/", userTok, nil, http.StatusForbidden)
}
