// Package events provides a minimal in-process event mechanism used to
// decouple the service layer from background task creation. Services emit
// task request events; handlers registered at wiring time turn them into
// queued tasks.
package events
