package schema

// UserAdminProfileTable represents the 'users.adminprofile' table
type UserAdminProfileTable struct {
	Table        string
	AccountID    string
	Name         string
	Surname      string
	Phone        string
	Document     string
	Email        string
	PasswordHash string
}

// UserAdminProfile is the schema definition for users.adminprofile
var UserAdminProfile = UserAdminProfileTable{
	Table:        "users.adminprofile",
	AccountID:    "accountid",
	Name:         "name",
	Surname:      "surname",
	Phone:        "phone",
	Document:     "document",
	Email:        "email",
	PasswordHash: "passwordhash",
}

func (t UserAdminProfileTable) Columns() []string {
	return []string{t.AccountID, t.Name, t.Surname, t.Phone, t.Document, t.Email, t.PasswordHash}
}
