package core

import "errors"

// Currencies is the fixed set of display unit symbols. The symbol only
// changes rendering; stored amounts are never converted between units.
var Currencies = []string{"₸", "$", "€", "₽"}

// Languages lists the supported display language tags.
var Languages = []string{"en", "ru"}

var (
	ErrInvalidCurrency = errors.New("invalid currency symbol")
	ErrInvalidLanguage = errors.New("invalid language")
)

// Settings holds the user's display preferences. They live in their own
// persistence slot, separate from the transaction list.
type Settings struct {
	Currency string `json:"currency"`
	Language string `json:"language"`
}

func DefaultSettings() Settings {
	return Settings{Currency: "$", Language: "en"}
}

func (s Settings) Validate() error {
	if !contains(Currencies, s.Currency) {
		return ErrInvalidCurrency
	}
	if !contains(Languages, s.Language) {
		return ErrInvalidLanguage
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
