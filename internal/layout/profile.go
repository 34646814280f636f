package layout

import (
	"strings"

	"github.com/glanzwerk/invoicing/internal/config"
)

// Profile is the company identity printed in the header and footer.
type Profile struct {
	Name           string
	Street         string
	PostalCity     string
	Country        string
	Email          string
	Phone          string
	Instagram      string
	Bank           string
	IBAN           string
	BIC            string
	Tagline        string
	PaymentMethods string
}

func ProfileFromConfig(c config.CompanyConfig) Profile {
	return Profile{
		Name:           c.Name,
		Street:         c.Street,
		PostalCity:     c.PostalCity,
		Country:        c.Country,
		Email:          c.Email,
		Phone:          c.Phone,
		Instagram:      c.Instagram,
		Bank:           c.Bank,
		IBAN:           c.IBAN,
		BIC:            c.BIC,
		Tagline:        c.Tagline,
		PaymentMethods: c.PaymentMethods,
	}
}

// AddressLine joins name and address for the header, e.g.
// "Glanzwerk Rheinland, Krasnaer Str. 1, 56566 Neuwied, Deutschland".
func (p Profile) AddressLine() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Name, p.Street, p.PostalCity, p.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
