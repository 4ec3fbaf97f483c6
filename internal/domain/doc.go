// Package domain contains the core business entities, value objects, and
// domain logic of the application: the typed shape of an extracted course
// record together with the Course and Ingest entities it is persisted
// against. It represents the heart of the system, independent of any
// specific infrastructure or delivery mechanism.
package domain
