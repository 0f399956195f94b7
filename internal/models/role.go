package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role names are a fixed set; roles are seeded at startup and rarely mutated.
const (
	RoleAdmin = "Admin"
	RoleAgent = "Agent"
	RoleUser  = "User"
)

// Role is a named bundle of permission references assigned to users.
type Role struct {
	Base        `bson:",inline"`
	Name        string               `bson:"name" json:"name"`
	Permissions []primitive.ObjectID `bson:"permissions" json:"permissions"`
}

// Permission is an atomic capability string gating one action.
type Permission struct {
	Base `bson:",inline"`
	Name string `bson:"name" json:"name"`
}

// Permission names. The set is fixed and seeded once.
const (
	// User management
	PermManageUsers = "manage_users"

	// Property management
	PermCreateProperty = "create_property"
	PermReadProperty   = "read_property"
	PermUpdateProperty = "update_property"
	PermDeleteProperty = "delete_property"

	// Appointment lifecycle
	PermCreateAppointment  = "create_appointment"
	PermUpdateAppointment  = "update_appointment"
	PermApproveAppointment = "approve_appointment"
	PermDeleteAppointment  = "delete_appointment"

	// Review management
	PermCreateReview = "create_review"
	PermReadReview   = "read_review"
	PermUpdateReview = "update_review"
	PermDeleteReview = "delete_review"

	// Deal management
	PermCreateDeal  = "create_deal"
	PermReadDeal    = "read_deal"
	PermManageDeals = "manage_deals"

	// Amenity management
	PermManageAmenities = "manage_amenities"

	// General
	PermViewDashboard = "view_dashboard"
)

// AllPermissions enumerates every permission name for seeding.
var AllPermissions = []string{
	PermManageUsers,
	PermCreateProperty,
	PermReadProperty,
	PermUpdateProperty,
	PermDeleteProperty,
	PermCreateAppointment,
	PermUpdateAppointment,
	PermApproveAppointment,
	PermDeleteAppointment,
	PermCreateReview,
	PermReadReview,
	PermUpdateReview,
	PermDeleteReview,
	PermCreateDeal,
	PermReadDeal,
	PermManageDeals,
	PermManageAmenities,
	PermViewDashboard,
}

// DefaultRolePermissions maps each seeded role to its permission names.
var DefaultRolePermissions = map[string][]string{
	RoleAdmin: {
		PermManageUsers,
		PermCreateProperty,
		PermReadProperty,
		PermUpdateProperty,
		PermDeleteProperty,
		PermCreateAppointment,
		PermUpdateAppointment,
		PermApproveAppointment,
		PermDeleteAppointment,
		PermCreateReview,
		PermReadReview,
		PermUpdateReview,
		PermDeleteReview,
		PermCreateDeal,
		PermReadDeal,
		PermManageDeals,
		PermManageAmenities,
		PermViewDashboard,
	},
	RoleAgent: {
		PermCreateProperty,
		PermReadProperty,
		PermUpdateProperty,
		PermDeleteProperty,
		PermCreateAppointment,
		PermUpdateAppointment,
		PermApproveAppointment,
		PermDeleteAppointment,
		PermCreateReview,
		PermReadReview,
		PermCreateDeal,
		PermReadDeal,
		PermViewDashboard,
	},
	RoleUser: {
		PermReadProperty,
		PermCreateAppointment,
		PermUpdateAppointment,
		PermCreateReview,
		PermReadReview,
		PermUpdateReview,
		PermDeleteReview,
	},
}
