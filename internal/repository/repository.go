// Package repository handles all interactions with the database.
//
// It contains the raw SQL and methods to fetch, persist, or delete data,
// abstracting SQL away from the service layer. Driver errors are normalized
// through the sqlerr package before they leave this layer.
package repository
