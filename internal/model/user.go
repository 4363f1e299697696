package model

// User represents a staff member in the directory.
// Password always holds a bcrypt hash; it is serialized because login
// and listing return the stored row as-is.
type User struct {
	ID       string  `json:"id" gorm:"type:char(36);primaryKey"`
	Name     string  `json:"name" gorm:"size:255"`
	Email    string  `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password string  `json:"password" gorm:"size:255;not null"`
	Role     string  `json:"role" gorm:"size:50"`
	Photo    *string `json:"photo" gorm:"size:512"`
}

// UserPatch names the fields a partial update touches. A nil field is left unchanged.
type UserPatch struct {
	Name  *string
	Email *string
	Role  *string
	Photo *string
}

// Empty reports whether the patch carries no field at all.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Role == nil && p.Photo == nil
}

// Assignments returns the present columns and their values in the
// fixed order name, email, role, photo.
func (p UserPatch) Assignments() ([]string, []interface{}) {
	var (
		columns []string
		values  []interface{}
	)
	add := func(column string, v *string) {
		if v != nil {
			columns = append(columns, column)
			values = append(values, *v)
		}
	}
	add("name", p.Name)
	add("email", p.Email)
	add("role", p.Role)
	add("photo", p.Photo)
	return columns, values
}

// UpdateResult is the datastore mutation result returned by an update.
type UpdateResult struct {
	AffectedRows int64 `json:"affectedRows"`
}
