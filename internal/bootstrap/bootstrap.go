package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/bankist/internal/model"
)

// Seed describes a demo account in the same shape the app was first given:
// parallel amount and date lists plus a plain pin.
type Seed struct {
	Owner        string
	Movements    []string
	InterestRate string
	PIN          int
	Dates        []string // RFC 3339
	Currency     string
	Locale       string
}

// AccountStore is the part of the account repository needed for seeding
type AccountStore interface {
	Create(acc *model.Account) error
}

// PINHasher hashes a pin before it is stored
type PINHasher interface {
	HashPIN(pin int) (string, error)
}

var usDates = []string{
	"2019-11-01T13:15:33.035Z",
	"2019-11-30T09:48:16.867Z",
	"2019-12-25T06:04:23.907Z",
	"2020-01-25T14:18:46.235Z",
	"2020-02-05T16:33:06.386Z",
	"2020-04-10T14:43:26.374Z",
	"2020-06-25T18:49:59.371Z",
	"2020-07-26T12:01:20.894Z",
}

// DemoAccounts returns the four accounts the app starts with
func DemoAccounts() []Seed {
	return []Seed{
		{
			Owner:        "Jonas Schmedtmann",
			Movements:    []string{"200", "450", "-400", "3000", "-650", "-130", "70", "1300"},
			InterestRate: "1.2",
			PIN:          1111,
			Dates: []string{
				"2019-11-18T21:31:17.178Z",
				"2019-12-23T07:42:02.383Z",
				"2020-01-28T09:15:04.904Z",
				"2020-04-01T10:17:24.185Z",
				"2020-05-08T14:11:59.604Z",
				"2020-05-27T17:01:17.194Z",
				"2020-07-11T23:36:17.929Z",
				"2020-07-12T10:51:36.790Z",
			},
			Currency: "EUR",
			Locale:   "pt-PT",
		},
		{
			Owner:        "Jessica Davis",
			Movements:    []string{"5000", "3400", "-150", "-790", "-3210", "-1000", "8500", "-30"},
			InterestRate: "1.5",
			PIN:          2222,
			Dates:        usDates,
			Currency:     "USD",
			Locale:       "en-US",
		},
		{
			Owner:        "Steven Thomas Williams",
			Movements:    []string{"200", "-200", "340", "-300", "-20", "50", "400", "-460"},
			InterestRate: "0.7",
			PIN:          3333,
			Dates:        usDates,
			Currency:     "USD",
			Locale:       "en-US",
		},
		{
			Owner:        "Sarah Smith",
			Movements:    []string{"430", "1000", "700", "50", "90"},
			InterestRate: "1",
			PIN:          4444,
			Dates:        usDates,
			Currency:     "USD",
			Locale:       "en-US",
		},
	}
}

// Initialize loads the demo accounts into the store.
// This should be called on server startup before the router is served.
func Initialize(store AccountStore, hasher PINHasher) error {
	return Load(store, hasher, DemoAccounts())
}

// Load builds an account from every seed and creates it. Seeds whose username
// is already taken are skipped.
func Load(store AccountStore, hasher PINHasher, seeds []Seed) error {
	for _, seed := range seeds {
		acc, err := Build(seed, hasher)
		if err != nil {
			return fmt.Errorf("failed to build account for %q: %w", seed.Owner, err)
		}

		if err := store.Create(acc); err != nil {
			if errors.Is(err, model.ErrDuplicateUsername) {
				log.Warn().Str("username", acc.Username).Msg("Account already exists, skipping seed")
				continue
			}
			return fmt.Errorf("failed to create account %q: %w", acc.Username, err)
		}

		log.Info().
			Str("username", acc.Username).
			Str("currency", acc.Currency).
			Int("movements", len(acc.Movements)).
			Msg("Seeded account")
	}
	return nil
}

// Build converts a seed into an account, deriving the username and hashing the pin
func Build(seed Seed, hasher PINHasher) (*model.Account, error) {
	amounts := make([]decimal.Decimal, len(seed.Movements))
	for i, raw := range seed.Movements {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid movement %q: %w", raw, err)
		}
		amounts[i] = d
	}

	dates := make([]time.Time, len(seed.Dates))
	for i, raw := range seed.Dates {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid movement date %q: %w", raw, err)
		}
		dates[i] = t
	}

	rate, err := decimal.NewFromString(seed.InterestRate)
	if err != nil {
		return nil, fmt.Errorf("invalid interest rate %q: %w", seed.InterestRate, err)
	}

	hash, err := hasher.HashPIN(seed.PIN)
	if err != nil {
		return nil, err
	}

	return &model.Account{
		Owner:        seed.Owner,
		Username:     model.DeriveUsername(seed.Owner),
		Movements:    model.PairMovements(amounts, dates),
		InterestRate: rate,
		PINHash:      hash,
		Currency:     seed.Currency,
		Locale:       seed.Locale,
	}, nil
}
