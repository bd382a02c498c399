package enum

// AppointmentStatus represents the booking state of an appointment
type AppointmentStatus string

const (
	AppointmentApproved        AppointmentStatus = "approved"
	AppointmentPendingApproval AppointmentStatus = "pending_approval"
	AppointmentCancelled       AppointmentStatus = "cancelled"
	AppointmentNoShow          AppointmentStatus = "no_show"
	AppointmentCompleted       AppointmentStatus = "completed"
)
