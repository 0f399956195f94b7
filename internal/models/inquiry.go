package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inquiry status enumeration.
const (
	InquiryNew       = "New"
	InquiryContacted = "Contacted"
	InquiryClosed    = "Closed"
)

// ValidInquiryStatus reports whether s is one of the enumerated statuses.
func ValidInquiryStatus(s string) bool {
	switch s {
	case InquiryNew, InquiryContacted, InquiryClosed:
		return true
	}
	return false
}

// Inquiry is a message directed at a property listing, from a registered user
// or a guest. UserID is nil for guests; guests supply Name and Email instead.
type Inquiry struct {
	Base       `bson:",inline"`
	UserID     *primitive.ObjectID `bson:"user_id,omitempty" json:"userId,omitempty"`
	PropertyID primitive.ObjectID  `bson:"property_id" json:"propertyId"`
	Name       string              `bson:"name,omitempty" json:"name,omitempty"`
	Email      string              `bson:"email,omitempty" json:"email,omitempty"`
	Message    string              `bson:"message" json:"message"`
	Status     string              `bson:"status" json:"status"`
}
