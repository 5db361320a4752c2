// Package permissions holds the single authorization function used by every service.
package permissions

import "munaybol/constants"

// Actor is the caller of an operation. The zero value is anonymous.
type Actor struct {
	UserID uint
	Role   string
}

func Anonymous() Actor { return Actor{} }

func (a Actor) Authenticated() bool { return a.UserID != 0 }

func (a Actor) IsSuperAdmin() bool {
	return a.Authenticated() && a.Role == constants.RoleSuperAdmin
}

type Action string

const (
	Read       Action = "read"
	List       Action = "list"
	Create     Action = "create"
	Update     Action = "update"
	Delete     Action = "delete"
	Cancel     Action = "cancel"
	Reactivate Action = "reactivate"
)

type Kind string

const (
	Hotel        Kind = "hotel"
	Place        Kind = "lugar_turistico"
	Package      Kind = "paquete"
	Room         Kind = "habitacion"
	Review       Kind = "review"
	Reservation  Kind = "reserva"
	ChatSession  Kind = "chat_session"
	Notification Kind = "notification"
	Payment      Kind = "pago"
	Suggestion   Kind = "sugerencia"
	User         Kind = "usuario"
	Upload       Kind = "upload"
)

// Resource describes what an action targets. OwnerID is nil for collections
// and for rows without an owner.
type Resource struct {
	Kind     Kind
	OwnerID  *uint
	Disabled bool
}

// Collection targets a whole table (list/create)
func Collection(kind Kind) Resource {
	return Resource{Kind: kind}
}

// Owned targets a row owned by ownerID
func Owned(kind Kind, ownerID uint) Resource {
	return Resource{Kind: kind, OwnerID: &ownerID}
}

// Catalog targets a public row that may be soft-disabled
func Catalog(kind Kind, disabled bool) Resource {
	return Resource{Kind: kind, Disabled: disabled}
}

func (r Resource) ownedBy(a Actor) bool {
	return a.Authenticated() && r.OwnerID != nil && *r.OwnerID == a.UserID
}

// Can reports whether actor may perform action on resource
func Can(actor Actor, action Action, res Resource) bool {
	if actor.IsSuperAdmin() {
		return true
	}

	switch res.Kind {
	case Hotel, Place, Package, Room:
		return (action == Read || action == List) && !res.Disabled

	case Review:
		switch action {
		case Read, List:
			return !res.Disabled
		case Create:
			return actor.Authenticated()
		case Update, Delete:
			return res.ownedBy(actor)
		}

	case Reservation:
		switch action {
		case List, Create:
			return actor.Authenticated()
		case Read, Update, Delete, Cancel, Reactivate:
			return res.ownedBy(actor)
		}

	case Payment:
		switch action {
		case List, Create:
			return actor.Authenticated()
		case Read:
			return res.ownedBy(actor)
		}

	case Suggestion:
		switch action {
		case List, Create:
			return actor.Authenticated()
		case Read, Update, Delete:
			return res.ownedBy(actor)
		}

	case ChatSession:
		switch action {
		case List:
			return actor.Authenticated()
		case Create:
			return true
		case Read, Update, Delete:
			// sessions without owner are addressed by their uuid only
			return res.OwnerID == nil || res.ownedBy(actor)
		}

	case Notification:
		switch action {
		case List:
			return actor.Authenticated()
		case Read, Update, Delete:
			return res.ownedBy(actor)
		}

	case User:
		switch action {
		case Create:
			return true
		case Read, Update:
			return res.ownedBy(actor)
		}
	}
	return false
}

// Fields of a reservation an owner is allowed to change
var ownerEditableReservationFields = map[string]bool{
	"fecha_reserva":   true,
	"fecha_caducidad": true,
}

// RestrictedReservationFields returns the changed fields actor may not modify
func RestrictedReservationFields(actor Actor, changed []string) []string {
	if actor.IsSuperAdmin() {
		return nil
	}
	var restricted []string
	for _, f := range changed {
		if !ownerEditableReservationFields[f] {
			restricted = append(restricted, f)
		}
	}
	return restricted
}

// Fields of a user profile the user may change on their own account
var selfEditableUserFields = map[string]bool{
	"nombre":      true,
	"pais":        true,
	"pasaporte":   true,
	"avatar_url":  true,
	"contrasenia": true,
}

// RestrictedUserFields returns the changed profile fields actor may not modify
func RestrictedUserFields(actor Actor, changed []string) []string {
	if actor.IsSuperAdmin() {
		return nil
	}
	var restricted []string
	for _, f := range changed {
		if !selfEditableUserFields[f] {
			restricted = append(restricted, f)
		}
	}
	return restricted
}
