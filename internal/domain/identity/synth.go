package identity

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Name and address pools for synthesized registry entries. The registry is a
// mock: an unknown-but-valid ID gets a plausible record rather than a 404,
// mirroring how the demo treats the national registry as always answering.
var (
	maleGivenNames   = []string{"Arjun", "Vikram", "Rohan", "Amit", "Suresh", "Karan", "Nikhil", "Rajesh"}
	femaleGivenNames = []string{"Ananya", "Kavita", "Meera", "Sneha", "Pooja", "Divya", "Ritu", "Lakshmi"}
	familyNames      = []string{"Sharma", "Patel", "Singh", "Kumar", "Gupta", "Reddy", "Iyer", "Nair", "Joshi", "Mehta"}

	streetNames = []string{"MG Road", "Station Road", "Gandhi Nagar", "Lake View Street", "Temple Street", "Park Avenue"}
	cities      = []string{"Mumbai, Maharashtra", "Delhi, Delhi", "Bengaluru, Karnataka", "Chennai, Tamil Nadu", "Hyderabad, Telangana", "Pune, Maharashtra"}
)

const (
	synthMinAge = 18
	synthMaxAge = 80
)

// synthesize builds a plausible identity record for an ID the registry has
// never seen.
func synthesize(identityID string) *Identity {
	gender := "Male"
	given := maleGivenNames[rand.Intn(len(maleGivenNames))]
	if rand.Intn(2) == 1 {
		gender = "Female"
		given = femaleGivenNames[rand.Intn(len(femaleGivenNames))]
	}
	family := familyNames[rand.Intn(len(familyNames))]
	name := given + " " + family

	ageDays := synthMinAge*365 + rand.Intn((synthMaxAge-synthMinAge)*365)
	dob := time.Now().AddDate(0, 0, -ageDays).Format("2006-01-02")

	email := fmt.Sprintf("%s.%s%s@example.com",
		strings.ToLower(given), strings.ToLower(family), identityID[8:])

	phone := fmt.Sprintf("%d", 6+rand.Intn(4))
	for i := 0; i < 9; i++ {
		phone += fmt.Sprintf("%d", rand.Intn(10))
	}

	address := fmt.Sprintf("%d %s, %s",
		1+rand.Intn(999),
		streetNames[rand.Intn(len(streetNames))],
		cities[rand.Intn(len(cities))])

	return &Identity{
		IdentityID:  identityID,
		Name:        name,
		DateOfBirth: dob,
		Gender:      gender,
		Address:     address,
		Phone:       phone,
		Email:       email,
	}
}
