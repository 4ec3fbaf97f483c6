// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the store
// interfaces to fulfill application features: creating courses, accepting
// document submissions, and persisting extraction results.
//
// Services receive dependencies through constructor injection and apply
// transactional boundaries when operations span multiple stores. Expected
// error conditions surface as sentinel errors that callers check with
// errors.Is; unexpected errors are wrapped in service-specific error types
// that the API layer maps to HTTP status codes.
package service
