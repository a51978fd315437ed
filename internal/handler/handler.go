// Package handler is the entry point for business logic after the router.
//
// It binds and validates requests using the validation package, calls the
// appropriate service, and shapes the response. It is the interface between
// the HTTP request and the core business logic.
package handler
