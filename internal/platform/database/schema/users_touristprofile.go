package schema

// UserTouristProfileTable represents the 'users.touristprofile' table
type UserTouristProfileTable struct {
	Table            string
	AccountID        string
	Name             string
	Surname          string
	Email            string
	PasswordHash     string
	Phone            string
	Nationality      string
	RegisteredAt     string
	IsBlocked        string
	VerificationCode string
}

// UserTouristProfile is the schema definition for users.touristprofile
var UserTouristProfile = UserTouristProfileTable{
	Table:            "users.touristprofile",
	AccountID:        "accountid",
	Name:             "name",
	Surname:          "surname",
	Email:            "email",
	PasswordHash:     "passwordhash",
	Phone:            "phone",
	Nationality:      "nationality",
	RegisteredAt:     "registeredat",
	IsBlocked:        "isblocked",
	VerificationCode: "verificationcode",
}

func (t UserTouristProfileTable) Columns() []string {
	return []string{
		t.AccountID, t.Name, t.Surname, t.Email, t.PasswordHash, t.Phone,
		t.Nationality, t.RegisteredAt, t.IsBlocked, t.VerificationCode,
	}
}
