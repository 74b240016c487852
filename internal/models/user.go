package models

// User represents a registered user account.
type User struct {
	// ID is the store-assigned identifier.
	ID int64 `db:"id" json:"id"`

	// Name is the display name of the user.
	Name string `db:"name" json:"name"`

	// Email is the user's email address (unique). Used for login.
	Email string `db:"email" json:"email"`

	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash string `db:"password_hash" json:"-"`

	// PhoneNumber is optional.
	PhoneNumber *string `db:"phone_number" json:"phoneNumber,omitempty"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `db:"created_at" json:"createdAt"`
}

// NewUser creates a User with the given fields. ID and CreatedAt are set by
// the store.
func NewUser(name, email, passwordHash string, phone *string) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		PhoneNumber:  phone,
	}
}

// UserPatch holds the fields of an account update. Nil fields are left as
// they are.
type UserPatch struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	PhoneNumber *string `json:"phoneNumber"`
}

// Friend is a contact owned by a user.
type Friend struct {
	ID          int64   `db:"id" json:"id"`
	UserID      int64   `db:"user_id" json:"userId"`
	Name        string  `db:"friend_name" json:"name"`
	Email       *string `db:"email" json:"email,omitempty"`
	PhoneNumber *string `db:"phone_number" json:"phoneNumber,omitempty"`
	CreatedAt   int64   `db:"created_at" json:"createdAt"`
}
