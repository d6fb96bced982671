package model

import "time"

const (
	TableName  = "roles_admin"
	EntityName = "admin_role"

	FieldUserID = "user_id"
)

// AdminRole grants the admin capability to the user it is keyed by.
// Its remaining columns are bookkeeping only.
type AdminRole struct {
	UserID    string    `db:"user_id"`
	GrantedBy string    `db:"granted_by"`
	CreatedAt time.Time `db:"created_at"`
}
