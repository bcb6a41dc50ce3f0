package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default business window values
const (
	DefaultOpenTime    = "09:00"
	DefaultCloseTime   = "18:00"
	DefaultTickMinutes = 5
	DefaultHorizonDays = 7
)

// Business validation constants
const (
	MaxNotesLength         = 500
	MaxAppointmentsPerCall = 20
	MaxFamilyBookingItems  = 20
)

// InactiveStatuses статусы, при которых запись не занимает тики
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}

// ActiveStatuses статусы, при которых запись держит тики
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
