// Package store persists the redirect records golink resolves aliases against.
//
// A [Store] is implemented in memory ([Memory]), in a JSON file ([File])
// and, in package postgres, in a PostgreSQL database.
package store
