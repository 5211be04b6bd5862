package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsBlocked    string
	TaxID        string
	Address      string
	City         string
	CreatedAt    string
	UpdatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Name:         "name",
	Email:        "email",
	PasswordHash: "passwordhash",
	Role:         "role",
	IsBlocked:    "isblocked",
	TaxID:        "taxid",
	Address:      "address",
	City:         "city",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Email, t.PasswordHash, t.Role, t.IsBlocked,
		t.TaxID, t.Address, t.City, t.CreatedAt, t.UpdatedAt,
	}
}
