package access

import "github.com/medirecord/medirecord/internal/platform/store"

// Seed resets the request registry to empty. The demo data set starts with
// no pending requests.
func Seed(snap store.Snapshot) error {
	return snap.Save(store.KeyAccessRequests, []*Request{})
}
