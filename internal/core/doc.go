// Package core provides the business logic for the freight dashboard.
//
// This package contains all domain logic independent of any UI or transport
// layer. Web handlers, seed loaders and tests use it without modification.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Entity Store: mutex-guarded collections of [Load], [Driver] and [Truck]
//     records. Only the [Service] writes to them.
//   - Filter Engine: [FilterLoads] derives the visible load list from the full
//     collection and a [FilterCriteria].
//   - CSV Codec: [EncodeLoads] and [DecodeLoads] move loads in and out of CSV
//     text with fuzzy header matching.
//   - Aggregator: [Summarize] computes dashboard counters from the current
//     collections.
//
// # Data Flow
//
//  1. The seed loader replaces each collection once at startup
//  2. Form submissions go through [Service] which validates, then mutates
//  3. Views and stats are recomputed from the current collections on every read
//  4. CSV imports decode, validate, then append with fresh ids
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - FETCH001: Startup data load failed
//   - CSV001-CSV006: Import file errors (type, lines, columns, rows, size, busy)
//   - VAL001-VAL002: Field validation and enum values
//   - ENT001-ENT002: Record lookup and mutation errors
//   - REQ001-REQ002: Canceled and timed out requests
//   - RATE001: Rate limit exceeded
package core
