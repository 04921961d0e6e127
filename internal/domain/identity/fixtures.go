package identity

import "github.com/medirecord/medirecord/internal/platform/store"

// Seed writes the fixture registry into the snapshot, replacing whatever
// was there.
func Seed(snap store.Snapshot) error {
	return snap.Save(store.KeyIdentities, seedIdentities())
}

// seedIdentities returns the demo registry contents used when no snapshot
// exists yet.
func seedIdentities() []*Identity {
	return []*Identity{
		{
			IdentityID:  "123456789012",
			Name:        "Rahul Sharma",
			DateOfBirth: "1990-05-15",
			Gender:      "Male",
			Address:     "123 Main Street, Mumbai, Maharashtra",
			Phone:       "9876543210",
			Email:       "rahul.sharma@example.com",
		},
		{
			IdentityID:  "234567890123",
			Name:        "Priya Patel",
			DateOfBirth: "1985-11-22",
			Gender:      "Female",
			Address:     "456 Park Avenue, Delhi, Delhi",
			Phone:       "8765432109",
			Email:       "priya.patel@example.com",
		},
		{
			IdentityID:  "345678901234",
			Name:        "Anjali Desai",
			DateOfBirth: "1978-03-09",
			Gender:      "Female",
			Address:     "78 Hill Road, Pune, Maharashtra",
			Phone:       "9123456780",
			Email:       "anjali.desai@example.com",
		},
	}
}
