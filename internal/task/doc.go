// Package task provides background task processing for document ingestion.
// Tasks are persisted to the database before being queued in memory, so that
// pending and interrupted work survives process restarts. A worker pool
// drains the queue and a monitor resets tasks stuck in the processing state.
package task
