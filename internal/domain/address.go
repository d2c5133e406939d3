package domain

import (
	"errors"
	"strings"
)

// DefaultCountry is the only country the comparison backend serves.
const DefaultCountry = "DE"

// ErrAddressIncomplete is returned when a required address field is empty.
var ErrAddressIncomplete = errors.New("All address fields (Street, House No., PLZ, City) are required.")

// Address is the search input sent to the offers endpoint.
//
// JSON keys are German because the backend expects them verbatim.
type Address struct {
	Street      string `json:"strasse"`
	HouseNumber string `json:"hausnummer"`
	PostalCode  string `json:"postleitzahl"`
	City        string `json:"stadt"`
	Country     string `json:"land"`
}

// NewAddress builds an address from raw form input, trimming surrounding
// whitespace and pinning the country. It does not validate.
func NewAddress(street, houseNumber, postalCode, city string) Address {
	return Address{
		Street:      strings.TrimSpace(street),
		HouseNumber: strings.TrimSpace(houseNumber),
		PostalCode:  strings.TrimSpace(postalCode),
		City:        strings.TrimSpace(city),
		Country:     DefaultCountry,
	}
}

// Validate reports ErrAddressIncomplete if any field the user types is empty.
func (a Address) Validate() error {
	if a.Street == "" || a.HouseNumber == "" || a.PostalCode == "" || a.City == "" {
		return ErrAddressIncomplete
	}
	return nil
}

// IsZero reports whether no field has been filled in.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String renders the address on one line, the way it is printed on a letter.
func (a Address) String() string {
	if a.IsZero() {
		return ""
	}
	return strings.TrimSpace(a.Street+" "+a.HouseNumber) + ", " + strings.TrimSpace(a.PostalCode+" "+a.City)
}
