package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRegisterRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	Id                    string    `json:"id"`
	Fullname              string    `json:"fullname"`
	Email                 string    `json:"email"`
	Membership            bool      `json:"membership"`
	Admin                 bool      `json:"admin"`
	PermissionsManagement bool      `json:"permissionsManagement"`
	CreateDatetime        time.Time `json:"createDatetime"`
	UpdateDatetime        time.Time `json:"updateDatetime"`
}

type UserCapabilities struct {
	Admin                 bool
	PermissionsManagement bool
}

// CanReviewMembership reports whether the principal may open the admin
// review surface and resolve membership requests.
func (c UserCapabilities) CanReviewMembership() bool {
	return c.Admin || c.PermissionsManagement
}

type User struct {
	Id                    uuid.UUID
	Fullname              string
	Email                 string
	Password              string
	Membership            bool
	Admin                 bool
	PermissionsManagement bool
	CreateDatetime        time.Time
	UpdateDatetime        time.Time
}
