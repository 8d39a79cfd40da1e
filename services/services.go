package services

import "retail-admin/store"

var db store.Store

// Init wires the active data store. Called once at startup (and by the
// test suites with the in-memory driver).
func Init(st store.Store) {
	db = st
}

// DB returns the active data store.
func DB() store.Store {
	return db
}
