package user

import (
	"time"

	"github.com/wichananm65/storefront/internal/address"
	"github.com/wichananm65/storefront/internal/session"
)

type User struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Password  string            `json:"password,omitempty"`
	Role      session.Role      `json:"role"`
	Phone     *string           `json:"phone,omitempty"`
	Avatar    *string           `json:"avatar,omitempty"`
	Addresses []address.Address `json:"addresses,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ProfileUpdate lists the fields a user may change on their own record.
// Nil fields are left as they are. A non-nil Addresses replaces the whole
// address list.
type ProfileUpdate struct {
	Name      *string            `json:"name,omitempty"`
	Email     *string            `json:"email,omitempty"`
	Password  *string            `json:"password,omitempty"`
	Phone     *string            `json:"phone,omitempty"`
	Avatar    *string            `json:"avatar,omitempty"`
	Addresses *[]address.Address `json:"addresses,omitempty"`
}

func sanitizeUser(u User) User {
	u.Password = ""
	return u
}
