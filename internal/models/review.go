package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is authored by a user against exactly one of a property or an agent.
type Review struct {
	Base       `bson:",inline"`
	AuthorID   primitive.ObjectID  `bson:"author_id" json:"authorId"`
	PropertyID *primitive.ObjectID `bson:"property_id,omitempty" json:"propertyId,omitempty"`
	AgentID    *primitive.ObjectID `bson:"agent_id,omitempty" json:"agentId,omitempty"`
	Rating     int                 `bson:"rating" json:"rating"`
	Comment    string              `bson:"comment" json:"comment"`
}
