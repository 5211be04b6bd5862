package schema

// UserCompanyProfileTable represents the 'users.companyprofile' table
type UserCompanyProfileTable struct {
	Table        string
	AccountID    string
	Name         string
	TaxID        string
	Address      string
	City         string
	Email        string
	PasswordHash string
}

// UserCompanyProfile is the schema definition for users.companyprofile
var UserCompanyProfile = UserCompanyProfileTable{
	Table:        "users.companyprofile",
	AccountID:    "accountid",
	Name:         "name",
	TaxID:        "taxid",
	Address:      "address",
	City:         "city",
	Email:        "email",
	PasswordHash: "passwordhash",
}

func (t UserCompanyProfileTable) Columns() []string {
	return []string{t.AccountID, t.Name, t.TaxID, t.Address, t.City, t.Email, t.PasswordHash}
}
