// Package audit implements the append-only audit trail for the governance
// loop.
//
// # Model
//
// Every notable occurrence produces exactly one immutable Event: a UUID,
// a UTC timestamp, an event type, a severity, a description, and an
// arbitrary metadata payload. Events are appended to an in-process ordered
// index (searchable, used for statistics and reports) and to a durable
// store. A store write failure fails that Record call only; the in-memory
// index keeps the event regardless.
//
// # Storage
//
// The default store appends JSON lines to one partition file per UTC
// calendar day, starting a new partition automatically on rollover.
// A SQLite store is available where queryable durability is preferred.
// Consumers outside the process read partitions as an immutable historical
// log, never as a transactional store.
//
// # Operator Visibility
//
// Error and critical events are surfaced synchronously through a Notifier
// at write time. The retention pruner deletes expired data on a cron
// schedule.
package audit
