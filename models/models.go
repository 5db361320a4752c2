package models

// All lists the models in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Hotel{},
		&Place{},
		&Room{},
		&Payment{},
		&TourPackage{},
		&Reservation{},
		&Suggestion{},
		&Notification{},
		&Review{},
		&ChatSession{},
	}
}
