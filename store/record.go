package store

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/xy-planning-network/golink"
)

const (
	// DefaultPageSize is the page size used when none is requested.
	DefaultPageSize = 50

	// MaxPageSize bounds the page size a caller may request.
	MaxPageSize = 500

	// MaxPageNumber bounds the page number so offsets cannot overflow.
	MaxPageNumber = math.MaxInt/MaxPageSize - 1

	// PublicRefLen is the length of a generated public reference.
	PublicRefLen = 10

	refAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// A User is the person a redirect was created or last changed by,
// as identified by the authenticating proxy.
type User struct {
	ExternalID string `json:"id"`
	Name       string `json:"name"`
}

// GetID returns u.ExternalID.
func (u User) GetID() string { return u.ExternalID }

// GetName returns u.Name.
func (u User) GetName() string { return u.Name }

// A Record is a stored redirect.
type Record struct {
	ID          int64     `json:"-"`
	PublicRef   string    `json:"publicRef"`
	Alias       string    `json:"alias"`
	Destination string    `json:"destination"`
	CreatedOn   time.Time `json:"createdOn"`
	CreatedBy   User      `json:"createdBy"`
}

// Matches reports whether ref names r by public reference or alias.
func (r Record) Matches(ref string) bool {
	return r.PublicRef == ref || r.Alias == ref
}

// A Page requests a window of records.
// Number is 0-based.
type Page struct {
	Number int `schema:"page"`
	Size   int `schema:"size"`
}

// Normalize clamps p to valid values.
func (p Page) Normalize() Page {
	switch {
	case p.Number < 0:
		p.Number = 0
	case p.Number > MaxPageNumber:
		p.Number = MaxPageNumber
	}

	switch {
	case p.Size <= 0:
		p.Size = DefaultPageSize
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}

	return p
}

// Offset is the number of records preceding p.
func (p Page) Offset() int { return p.Number * p.Size }

// HasMore reports whether records follow p given total records.
func (p Page) HasMore(total int64) bool {
	return int64(1+p.Number)*int64(p.Size) < total
}

// A List is one page of records.
type List struct {
	Records []Record
	Total   int64
	HasMore bool
}

// NewPublicRef generates a random alphanumeric reference of [PublicRefLen] characters.
func NewPublicRef() (string, error) {
	size := big.NewInt(int64(len(refAlphabet)))
	b := make([]byte, PublicRefLen)
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("%w: generating public ref: %s", golink.ErrUnexpected, err)
		}

		b[i] = refAlphabet[n.Int64()]
	}

	return string(b), nil
}
