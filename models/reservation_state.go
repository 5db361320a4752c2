package models

// ReservationState drives the active/cancelled transitions of a reservation.
// Both transitions are idempotent: they report whether the reservation changed.
type ReservationState interface {
	Name() string
	Cancel(r *Reservation) bool
	Reactivate(r *Reservation) bool
}

// ActiveState is a reservation that blocks its room
type ActiveState struct{}

func (s *ActiveState) Name() string { return "active" }

func (s *ActiveState) Cancel(r *Reservation) bool {
	r.Estado = Disabled
	return true
}

func (s *ActiveState) Reactivate(r *Reservation) bool {
	return false
}

// CancelledState is a soft-deleted reservation
type CancelledState struct{}

func (s *CancelledState) Name() string { return "cancelled" }

func (s *CancelledState) Cancel(r *Reservation) bool {
	return false
}

func (s *CancelledState) Reactivate(r *Reservation) bool {
	r.Estado = Active
	return true
}

// GetReservationState returns the state matching the reservation flag
func GetReservationState(r *Reservation) ReservationState {
	if r.Estado.IsActive() {
		return &ActiveState{}
	}
	return &CancelledState{}
}
