// Package api contains the HTTP delivery layer: request handlers, request
// and response models, and error mapping. Handlers validate input, call the
// service layer, and translate service errors into sanitized HTTP responses.
package api
