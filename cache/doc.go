// Package cache layers Redis in front of a store.Store
// and counts how often each redirect is followed.
package cache
