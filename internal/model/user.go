package model

import "github.com/mamutes/party-service/internal/repository"

// User represents an account as stored in the `users` table.  Type is a
// free-form label such as "buyer" or "organizer"; it is also the role
// claim of tokens issued by /auth/login.
//
// Fields:
//  UserID   – surrogate primary key assigned on insert.
//  Name     – display name.
//  Email    – login email; not unique at the schema level.
//  Password – stored exactly as submitted.
//  Type     – account type.
type User struct {
	UserID   int64  `json:"user_id"`  // users.user_id
	Name     string `json:"name"`     // users.name
	Email    string `json:"email"`    // users.email
	Password string `json:"password"` // users.password
	Type     string `json:"type"`     // users.type
}

// UserRequest is the body of POST /users and PUT /users/:id.
type UserRequest struct {
	Name     *string `json:"name" validate:"required"`
	Email    *string `json:"email" validate:"required"`
	Password *string `json:"password" validate:"required"`
	Type     *string `json:"type" validate:"required"`
}

// UserPatch is the body of PATCH /users/:id; absent fields are kept.
type UserPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Type     *string `json:"type"`
}

// ApplyTo overwrites every field of u; validation guarantees all are set.
func (r *UserRequest) ApplyTo(u *User) { (*UserPatch)(r).ApplyTo(u) }

func (p *UserPatch) ApplyTo(u *User) {
	set(&u.Name, p.Name)
	set(&u.Email, p.Email)
	set(&u.Password, p.Password)
	set(&u.Type, p.Type)
}

// UserTable maps User onto the users table.
var UserTable = repository.Table[User]{
	Entity:  "User",
	Name:    "users",
	Key:     "user_id",
	Columns: []string{"name", "email", "password", "type"},
	ID:      func(u *User) *int64 { return &u.UserID },
	Fields:  func(u *User) []any { return []any{&u.Name, &u.Email, &u.Password, &u.Type} },
}
