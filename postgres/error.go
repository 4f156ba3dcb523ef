package postgres

import (
	"errors"
	"regexp"
)

const violatesFK = "violates foreign key constraint"

var (
	errNilArg = errors.New("nil arg")

	// These errors originate from the std lib database/sql package.
	errSQLScan          = regexp.MustCompile(`sql: expected \d+ destination arguments in Scan, not \d+`)
	errSQLUnaddressable = regexp.MustCompile(`sql: Scan error on column index \d+, name "\w+": destination not a pointer`)

	// errSQLSyntax loosely aggregates PostgreSQL error codes
	// for syntax issues in a statement or datatype mismatches.
	//
	// Cf., https://www.postgresql.org/docs/current/errcodes-appendix.html
	errSQLSyntax = regexp.MustCompile(`SQLSTATE (42601|22P02)`)

	errUniqViolation = regexp.MustCompile(`SQLSTATE (23505)`)
)
