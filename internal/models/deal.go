package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Deal type enumeration.
const (
	DealTypeSale = "Sale"
	DealTypeRent = "Rent"
)

// ValidDealType reports whether t is one of the enumerated deal types.
func ValidDealType(t string) bool {
	return t == DealTypeSale || t == DealTypeRent
}

// Deal records a closed sale or rental agreement between an agent and a client.
type Deal struct {
	Base        `bson:",inline"`
	PropertyID  primitive.ObjectID `bson:"property_id" json:"propertyId"`
	AgentID     primitive.ObjectID `bson:"agent_id" json:"agentId"`
	ClientID    primitive.ObjectID `bson:"client_id" json:"clientId"`
	DealType    string             `bson:"deal_type" json:"dealType"`
	AgreedPrice float64            `bson:"agreed_price" json:"agreedPrice"`
	Currency    string             `bson:"currency" json:"currency"`
	ClosedAt    time.Time          `bson:"closed_at" json:"dealClosedAt"`
}
