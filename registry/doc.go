// Package registry owns the compiled form of every stored redirect.
//
// A [Registry] fronts a store.Store: writes normalize aliases and refresh the compiled
// template, reads compile on first use and keep the result in process.
package registry
