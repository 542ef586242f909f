package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAdvisorRequired = errors.New("investor accounts require a parent advisor")

// User covers all three marketplace roles. Investors are always linked to
// the advisor who registered them via advisorID.
type User struct {
	id           uuid.UUID
	name         string
	email        Email
	passwordHash string
	role         Role
	advisorID    *uuid.UUID
	isActive     bool
	lastLogin    *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(name string, email Email, passwordHash string, role Role, advisorID *uuid.UUID) (*User, error) {
	if role == RoleInvestor && advisorID == nil {
		return nil, ErrAdvisorRequired
	}
	return &User{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		advisorID:    advisorID,
		isActive:     true,
	}, nil
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Name() string          { return u.name }
func (u *User) Email() Email          { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Role() Role            { return u.role }
func (u *User) AdvisorID() *uuid.UUID { return u.advisorID }
func (u *User) IsActive() bool        { return u.isActive }
func (u *User) LastLogin() *time.Time { return u.lastLogin }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
