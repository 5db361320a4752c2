package permissions

import (
	"testing"

	"munaybol/constants"
)

func TestCan(t *testing.T) {
	anon := Anonymous()
	owner := Actor{UserID: 1, Role: constants.RoleUser}
	other := Actor{UserID: 2, Role: constants.RoleUser}
	admin := Actor{UserID: 3, Role: constants.RoleSuperAdmin}
	// a token carrying the superadmin role without a user is not a superadmin
	ghost := Actor{Role: constants.RoleSuperAdmin}

	cases := []struct {
		name   string
		actor  Actor
		action Action
		res    Resource
		want   bool
	}{
		{"anonymous reads hotels", anon, List, Collection(Hotel), true},
		{"anonymous cannot see disabled hotel", anon, Read, Catalog(Hotel, true), false},
		{"admin sees disabled hotel", admin, Read, Catalog(Hotel, true), true},
		{"user cannot create hotel", owner, Create, Collection(Hotel), false},
		{"admin creates room", admin, Create, Collection(Room), true},
		{"ghost superadmin is anonymous", ghost, Create, Collection(Hotel), false},

		{"anonymous cannot book", anon, Create, Collection(Reservation), false},
		{"user books", owner, Create, Collection(Reservation), true},
		{"owner cancels", owner, Cancel, Owned(Reservation, 1), true},
		{"other cannot cancel", other, Cancel, Owned(Reservation, 1), false},
		{"other cannot reactivate", other, Reactivate, Owned(Reservation, 1), false},
		{"admin reactivates", admin, Reactivate, Owned(Reservation, 1), true},
		{"other cannot update", other, Update, Owned(Reservation, 1), false},

		{"owner reads payment", owner, Read, Owned(Payment, 1), true},
		{"owner cannot update payment", owner, Update, Owned(Payment, 1), false},
		{"owner deletes suggestion", owner, Delete, Owned(Suggestion, 1), true},

		{"anonymous creates chat session", anon, Create, Collection(ChatSession), true},
		{"anonymous reads ownerless session", anon, Read, Resource{Kind: ChatSession}, true},
		{"anonymous cannot read owned session", anon, Read, Owned(ChatSession, 1), false},
		{"anonymous cannot list sessions", anon, List, Collection(ChatSession), false},

		{"owner reads notification", owner, Read, Owned(Notification, 1), true},
		{"other cannot delete notification", other, Delete, Owned(Notification, 1), false},

		{"user edits self", owner, Update, Owned(User, 1), true},
		{"user cannot list users", owner, List, Collection(User), false},
		{"user cannot disable self", owner, Delete, Owned(User, 1), false},

		{"user writes review", owner, Create, Collection(Review), true},
		{"other cannot edit review", other, Update, Owned(Review, 1), false},
		{"user cannot upload", owner, Create, Collection(Upload), false},
		{"admin uploads", admin, Create, Collection(Upload), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Can(tc.actor, tc.action, tc.res); got != tc.want {
				t.Fatalf("Can(%+v, %s, %+v) = %v, want %v", tc.actor, tc.action, tc.res, got, tc.want)
			}
		})
	}
}

func TestRestrictedReservationFields(t *testing.T) {
	owner := Actor{UserID: 1, Role: constants.RoleUser}
	admin := Actor{UserID: 3, Role: constants.RoleSuperAdmin}

	got := RestrictedReservationFields(owner, []string{"fecha_reserva", "estado", "id_pago"})
	if len(got) != 2 || got[0] != "estado" || got[1] != "id_pago" {
		t.Fatalf("unexpected restricted fields %v", got)
	}
	if got := RestrictedReservationFields(owner, []string{"fecha_caducidad"}); len(got) != 0 {
		t.Fatalf("owner may move dates, got %v", got)
	}
	if got := RestrictedReservationFields(admin, []string{"estado"}); got != nil {
		t.Fatalf("superadmin is unrestricted, got %v", got)
	}
}

func TestRestrictedUserFields(t *testing.T) {
	owner := Actor{UserID: 1, Role: constants.RoleUser}
	if got := RestrictedUserFields(owner, []string{"nombre", "rol", "correo"}); len(got) != 2 {
		t.Fatalf("expected rol and correo restricted, got %v", got)
	}
}
