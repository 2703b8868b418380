// Package handler is the first layer after the router.
//
// It binds and validates requests with the validation package, calls the
// matching service and writes the response. It is the boundary between
// HTTP and the campus business rules.
package handler
