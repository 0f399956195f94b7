package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account. The password hash is stored under the
// bson "password" field and never serialized to JSON.
type User struct {
	Base      `bson:",inline"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	RoleID    primitive.ObjectID `bson:"role_id" json:"roleId"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Bio       string             `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL string             `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
}

// UserWithRole is a User joined with its role name, as returned by listing
// and login responses.
type UserWithRole struct {
	User     `bson:",inline"`
	RoleName string `bson:"role_name" json:"roleName"`
}
