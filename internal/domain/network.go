package domain

import "time"

// Network holds the metadata of a supported crypto network. AddressPattern
// is the validation regex for addresses on this network; it is data, not
// logic.
type Network struct {
	Code           string
	Name           string
	AddressPattern string
	CreatedAt      time.Time
}
