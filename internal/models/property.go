package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property type enumeration.
const (
	PropertyTypeApartment = "Apartment"
	PropertyTypeHouse     = "House"
	PropertyTypeLand      = "Land"
	PropertyTypeVilla     = "Villa"
	PropertyTypeTownhouse = "Townhouse"
)

// Property status enumeration.
const (
	PropertyStatusForSale = "For Sale"
	PropertyStatusForRent = "For Rent"
)

// Property availability enumeration.
const (
	AvailabilityAvailable = "Available"
	AvailabilityPending   = "Pending"
	AvailabilitySold      = "Sold"
	AvailabilityRented    = "Rented"
)

var (
	PropertyTypes          = []string{PropertyTypeApartment, PropertyTypeHouse, PropertyTypeLand, PropertyTypeVilla, PropertyTypeTownhouse}
	PropertyStatuses       = []string{PropertyStatusForSale, PropertyStatusForRent}
	PropertyAvailabilities = []string{AvailabilityAvailable, AvailabilityPending, AvailabilitySold, AvailabilityRented}
)

// Coordinates is an optional lat/lng pair on a property location.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Location describes where a property is.
type Location struct {
	Street      string       `bson:"street,omitempty" json:"street,omitempty"`
	City        string       `bson:"city" json:"city"`
	State       string       `bson:"state" json:"state"`
	ZipCode     string       `bson:"zip_code" json:"zipCode"`
	Country     string       `bson:"country" json:"country"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Features describes the physical characteristics of a property.
type Features struct {
	Bedrooms     int                  `bson:"bedrooms" json:"bedrooms"`
	Bathrooms    int                  `bson:"bathrooms" json:"bathrooms"`
	Area         float64              `bson:"area" json:"area"`
	LotSize      float64              `bson:"lot_size,omitempty" json:"lotSize,omitempty"`
	YearBuilt    int                  `bson:"year_built,omitempty" json:"yearBuilt,omitempty"`
	ParkingSpots int                  `bson:"parking_spots,omitempty" json:"parkingSpots,omitempty"`
	AmenityIDs   []primitive.ObjectID `bson:"amenity_ids,omitempty" json:"amenityIds,omitempty"`
}

// Property is a listing owned by an agent for write purposes but publicly readable.
type Property struct {
	Base         `bson:",inline"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	PropertyType string             `bson:"property_type" json:"propertyType"`
	Status       string             `bson:"status" json:"status"`
	Availability string             `bson:"availability" json:"availability"`
	Price        float64            `bson:"price" json:"price"`
	Currency     string             `bson:"currency" json:"currency"`
	Location     Location           `bson:"location" json:"location"`
	Features     Features           `bson:"features" json:"features"`
	Images       []string           `bson:"images" json:"images"`
	VideoTourURL string             `bson:"video_tour_url,omitempty" json:"videoTourUrl,omitempty"`
	AgentID      primitive.ObjectID `bson:"agent_id" json:"agentId"`
	IsFeatured   bool               `bson:"is_featured" json:"isFeatured"`
	Views        int64              `bson:"views" json:"views"`
	Slug         string             `bson:"slug,omitempty" json:"slug,omitempty"`
}

// ValidPropertyType reports whether t is one of the enumerated property types.
func ValidPropertyType(t string) bool {
	for _, v := range PropertyTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ValidPropertyStatus reports whether s is one of the enumerated statuses.
func ValidPropertyStatus(s string) bool {
	for _, v := range PropertyStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidAvailability reports whether a is one of the enumerated availabilities.
func ValidAvailability(a string) bool {
	for _, v := range PropertyAvailabilities {
		if v == a {
			return true
		}
	}
	return false
}
