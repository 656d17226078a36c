package entity

// User rows are owned by the external auth system; the booking core only
// reads them for contact details and role checks.
type User struct {
	Base
	Email    string  `db:"email"`
	FullName string  `db:"full_name"`
	Phone    *string `db:"phone"`
	Role     string  `db:"role"`
}
