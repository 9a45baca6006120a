package domain

import "context"

// ActorRole is the capacity in which a user acts on a note.
type ActorRole string

const (
	// ActorRoleOperator raises and discards notes on behalf of the
	// reprocessor or exporter.
	ActorRoleOperator ActorRole = "reprocessor_exporter"

	// ActorRoleSignatory authorises, deletes and cancels notes.
	ActorRoleSignatory ActorRole = "signatory"

	// ActorRoleProducer accepts notes and requests cancellation.
	ActorRoleProducer ActorRole = "producer"
)

var validRoles = map[ActorRole]bool{
	ActorRoleOperator:  true,
	ActorRoleSignatory: true,
	ActorRoleProducer:  true,
}

// IsValid checks if the role is a valid role
func (r ActorRole) IsValid() bool {
	return validRoles[r]
}

// UserRef identifies who made a change.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// SystemUser is recorded when no user is attached to the request.
var SystemUser = UserRef{ID: "system", Name: "system"}

// User is an authenticated caller.
type User struct {
	UserRef
	Role ActorRole
}

type userContextKey struct{}

// ContextWithUser attaches user to ctx.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the user attached to ctx.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok && user != nil
}

// ActingUser returns the reference of the user in ctx, or SystemUser.
func ActingUser(ctx context.Context) UserRef {
	if user, ok := UserFromContext(ctx); ok {
		return user.UserRef
	}
	return SystemUser
}
