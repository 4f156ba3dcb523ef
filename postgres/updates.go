package postgres

import (
	"database/sql/driver"
	"fmt"

	"github.com/xy-planning-network/golink"
)

// An Updates maps database columns to the values they are set to.
type Updates map[string]any

func (u Updates) valid() error {
	if len(u) == 0 {
		return fmt.Errorf("%w: no columns set", golink.ErrMissingData)
	}

	return nil
}

// StripNils removes all entries whose value resolves to nil, i.e. NULL.
func (u Updates) StripNils() {
	for k, v := range u {
		switch t := v.(type) {
		case nil:
			delete(u, k)

		case driver.Valuer:
			val, err := t.Value()
			if err != nil || val == nil {
				delete(u, k)
			}
		}
	}
}
