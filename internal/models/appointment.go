package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment status enumeration.
const (
	AppointmentPending   = "Pending"
	AppointmentConfirmed = "Confirmed"
	AppointmentCancelled = "Cancelled"
	AppointmentCompleted = "Completed"
)

// appointmentTransitions encodes the allowed status transitions. Cancelled and
// Completed are terminal.
var appointmentTransitions = map[string][]string{
	AppointmentPending:   {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled},
}

// ValidAppointmentStatus reports whether s is one of the enumerated statuses.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}

// CanTransitionAppointment reports whether an appointment may move from one
// status to another.
func CanTransitionAppointment(from, to string) bool {
	for _, next := range appointmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Appointment is a viewing request on a property made by a user towards an agent.
type Appointment struct {
	Base        `bson:",inline"`
	PropertyID  primitive.ObjectID `bson:"property_id" json:"propertyId"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	AgentID     primitive.ObjectID `bson:"agent_id" json:"agentId"`
	RequestedAt time.Time          `bson:"requested_at" json:"requestedDateTime"`
	ConfirmedAt *time.Time         `bson:"confirmed_at,omitempty" json:"confirmedDateTime,omitempty"`
	Status      string             `bson:"status" json:"status"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
