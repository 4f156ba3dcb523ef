/*
Package postgres stores golink redirects in PostgreSQL.

[Connect] opens the connection through GORM and runs every pending [Migration].
When connecting to a test database, the public schema is dropped first.

[DB] wraps the *gorm.DB, translating driver errors into golink errors,
and [RedirectStore] implements store.Store on top of it,
counting clicks in the redirect_usages table.
*/
package postgres
