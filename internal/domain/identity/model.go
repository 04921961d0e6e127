package identity

import "regexp"

// Identity is one record of the mocked national-ID registry. It stands in
// for the external identity-verification system and is the root of trust
// for patient and doctor profiles.
type Identity struct {
	IdentityID  string `json:"identity_id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

var identityIDPattern = regexp.MustCompile(`^\d{12}$`)

// ValidID reports whether id is a syntactically valid identity number:
// exactly 12 numeric characters.
func ValidID(id string) bool {
	return identityIDPattern.MatchString(id)
}
