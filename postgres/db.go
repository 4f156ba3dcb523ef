package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xy-planning-network/golink"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// safeGORMSession forces a fresh *gorm.Statement.
var safeGORMSession = &gorm.Session{}

// DB wraps a *gorm.DB, translating its errors into golink errors.
type DB struct {
	// Some *gorm.DB methods are not thread-safe
	// and mutate the state of the *gorm.DB backing DB.
	// Those calling *gorm.DB.getInstance create a new pointer and are safe.
	db *gorm.DB
}

// NewDB constructs a *DB from a *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// DB exposes the underlying *gorm.DB backing DB.
//
// NB: use in exceptional circumstances only.
func (db *DB) DB() *gorm.DB { return db.db }

// WithContext runs the current query under ctx.
func (db *DB) WithContext(ctx context.Context) *DB { return &DB{db: db.db.WithContext(ctx)} }

// **************************************************************************
// FINISHER METHODS
//
// These methods close out the current query, executing it.
// They return any errors occurring within the query chain or when executing the query.
// **************************************************************************

// Count returns the number of records matching the current query.
func (db *DB) Count() (int64, error) {
	if db.db.Error != nil {
		return 0, db.db.Error
	}

	var count int64
	if err := db.db.Session(safeGORMSession).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: %s", golink.ErrUnexpected, err)
	}

	return count, nil
}

// Create inserts value into the database, updating value with the data yielded from that insertion.
//
// Value must be a pointer, otherwise ErrUnaddressable returns.
// If value violates a foreign key constraint, ErrNotValid returns.
// If value violates a unique constraint, ErrExists returns.
func (db *DB) Create(value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %T must be a non-nil pointer or slice", golink.ErrUnaddressable, value)
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	err = db.db.Session(&gorm.Session{FullSaveAssociations: false}).Create(value).Error
	switch {
	case err == nil:
		return nil

	case errors.Is(err, schema.ErrUnsupportedDataType), errors.Is(err, gorm.ErrInvalidData):
		return fmt.Errorf("%w: %T is not a table", golink.ErrMissingData, value)

	case strings.Contains(err.Error(), violatesFK):
		return fmt.Errorf("%w: %s", golink.ErrNotValid, err)

	case errUniqViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", golink.ErrExists, err)

	default:
		return fmt.Errorf("%w: failed creating %T: %s", golink.ErrUnexpected, value, err)
	}
}

// Delete removes the database record for value.
// If no record is removed, ErrNotFound returns.
func (db *DB) Delete(value any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Delete(value)
	if errors.Is(res.Error, schema.ErrUnsupportedDataType) {
		return fmt.Errorf("%w: cannot parse table name from %T", golink.ErrMissingData, value)
	}

	if res.Error != nil {
		return fmt.Errorf("%w: failed deleting %T: %s", golink.ErrUnexpected, value, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %T", golink.ErrNotFound, value)
	}

	return nil
}

// Exec executes SQL query sql, passing values to it.
//
// If the query executed does not affect any records, Exec returns ErrNotFound.
func (db *DB) Exec(sql string, values ...any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	var err error
	values, err = unwrap(values...)
	if err != nil && !errors.Is(err, errNilArg) {
		return err
	}

	res := db.db.Exec(sql, values...)
	if res.Error != nil {
		return fmt.Errorf("%w: %s", golink.ErrUnexpected, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: exec failed to affect any rows", golink.ErrNotFound)
	}

	return nil
}

// Find retrieves all records matching the current query and stores them in dest.
//
// If dest is not a valid type for the table queried, ErrNotValid returns.
// Unlike First, Find does not consider zero matches an error.
func (db *DB) Find(dest any) (err error) {
	badDest := fmt.Errorf("%w: %T cannot be scanned into", golink.ErrNotValid, dest)
	defer func() {
		if r := recover(); r != nil {
			err = badDest
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	err = db.db.Find(dest).Error
	switch {
	case err == nil:
		return nil
	case errSQLScan.MatchString(err.Error()):
		return badDest
	case errSQLSyntax.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", golink.ErrNotValid, err)
	default:
		return fmt.Errorf("%w: %s", golink.ErrUnexpected, err)
	}
}

// First retrieves a single record matching the current query and stores it in dest.
//
// If no matches are found, First returns ErrNotFound.
func (db *DB) First(dest any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.First(dest).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %T", golink.ErrNotFound, dest)
	case errSQLSyntax.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", golink.ErrNotValid, err)
	default:
		return fmt.Errorf("%w: %s", golink.ErrUnexpected, err)
	}
}

// Raw executes sql, passing values to it, and scans the results into dest.
func (db *DB) Raw(dest any, sql string, values ...any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	var err error
	values, err = unwrap(values...)
	if err != nil && !errors.Is(err, errNilArg) {
		return err
	}

	err = db.db.Raw(sql, values...).Scan(dest).Error
	switch {
	case err == nil:
		return nil
	case errSQLSyntax.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", golink.ErrNotValid, err)
	case errSQLUnaddressable.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", golink.ErrUnaddressable, err)
	default:
		return fmt.Errorf("%w: failed scanning results: %s", golink.ErrUnexpected, err)
	}
}

// Update replaces existing data on all records matching the query with values.
//
// If no records are updated, ErrNotFound returns.
func (db *DB) Update(values Updates) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := values.valid(); err != nil {
		return err
	}

	res := db.db.Updates(map[string]any(values))
	switch {
	case res.RowsAffected == 0 && res.Error == nil:
		return fmt.Errorf("%w", golink.ErrNotFound)

	case res.Error == nil:
		return nil

	case strings.Contains(res.Error.Error(), violatesFK):
		return fmt.Errorf("%w: %s", golink.ErrNotValid, res.Error)

	case errUniqViolation.MatchString(res.Error.Error()):
		return fmt.Errorf("%w: %s", golink.ErrExists, res.Error)

	default:
		return fmt.Errorf("%w: %s", golink.ErrUnexpected, res.Error)
	}
}

// **************************************************************************
// QUERY BUILDING METHODS
//
// Query building methods initiate a query and add clauses to it
// until a finisher method is called.
// **************************************************************************

// Limit applies a LIMIT clause to the current query.
func (db *DB) Limit(limit int) *DB {
	// NOTE: GORM drops a negative LIMIT; PostgreSQL rejects it.
	// Limit mirrors PostgreSQL.
	if limit < 0 {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(fmt.Errorf("%w: limit must not be negative", golink.ErrNotValid))
		return &DB{db: gdb}
	}

	return &DB{db: db.db.Limit(limit)}
}

// Model declares the table used for the query.
func (db *DB) Model(model any) *DB { return &DB{db: db.db.Model(model)} }

// Offset applies an OFFSET clause to the current query.
func (db *DB) Offset(offset int) *DB {
	if offset < 0 {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(fmt.Errorf("%w: offset must not be negative", golink.ErrNotValid))
		return &DB{db: gdb}
	}

	return &DB{db: db.db.Offset(offset)}
}

// Or applies an OR clause to the current query.
// Or supports one or none args.
func (db *DB) Or(query any, args ...any) *DB {
	return db.clause(db.db.Or, "Or", query, args...)
}

// Order applies an ORDER BY clause to the current query.
func (db *DB) Order(order string) *DB { return &DB{db: db.db.Order(order)} }

// Preload fetches the association named by the model's field, such as CreatedBy.
func (db *DB) Preload(association string) *DB { return &DB{db: db.db.Preload(association)} }

// Table defines which database table to query.
func (db *DB) Table(name string) *DB { return &DB{db: db.db.Table(name)} }

// Where applies the query fragment or subquery to the current query
// as a WHERE or AND clause.
// Where supports one or none args.
func (db *DB) Where(query any, args ...any) *DB {
	return db.clause(db.db.Where, "Where", query, args...)
}

func (db *DB) clause(apply func(any, ...any) *gorm.DB, name string, query any, args ...any) *DB {
	if len(args) > 1 {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(fmt.Errorf("%w: %s supports one or none args", golink.ErrNotValid, name))
		return &DB{db: gdb}
	}

	var err error
	args, err = unwrap(args...)
	if err != nil && !errors.Is(err, errNilArg) {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(err)
		return &DB{db: gdb}
	}

	q, err := unwrap(query)
	if err != nil {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(err)
		return &DB{db: gdb}
	}

	return &DB{db: apply(q[0], args...)}
}

// **************************************************************************
// TRANSACTION METHODS
// **************************************************************************

// Transaction runs fn inside a database transaction,
// committing when fn returns nil and rolling back otherwise.
func (db *DB) Transaction(fn func(tx *DB) error) error {
	err := db.db.Transaction(func(tx *gorm.DB) error { return fn(NewDB(tx)) })
	if err == nil {
		return nil
	}

	if errors.Is(err, golink.ErrExists) ||
		errors.Is(err, golink.ErrNotFound) ||
		errors.Is(err, golink.ErrNotValid) ||
		errors.Is(err, golink.ErrUnexpected) {
		return err
	}

	return fmt.Errorf("%w: transaction failed: %s", golink.ErrUnexpected, err)
}

// **************************************************************************
// HELPERS
// **************************************************************************

// unwrap exposes the *gorm.DB behind any *DB passed as a parameter.
//
// If a *DB is in an error state, unwrap surfaces it
// so a *DB method can return before a partial query runs.
func unwrap(args ...any) ([]any, error) {
	var err error
	res := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case *DB:
			gdb := v.DB()
			if gdb.Error != nil {
				err = errors.Join(err, gdb.Error)
			}
			res[i] = gdb

		case nil:
			res[i] = arg
			err = errors.Join(err, golink.ErrNotValid, errNilArg)

		default:
			res[i] = arg
		}
	}

	return res, err
}
