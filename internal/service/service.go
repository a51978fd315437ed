// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives validated
// data from the handlers, applies the intake rules (terms gate, duplicate
// checks, confirmation email), and calls repository methods to touch data.
package service
