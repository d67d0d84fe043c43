// Package entsogo implements a client for the European electricity
// transparency platform API.
//
// # Architecture
//
// The client is structured into several key packages:
//   - registry: Static reference tables (areas, fuel types, categories)
//   - planner: Query validation and expansion into bounded sub-requests
//   - transport: HTTP execution with rate limiting, backoff, and retries
//   - decode: Container detection (ZIP or bare XML) and document parsing
//   - assemble: Deduplication, ordering, and enrichment of partial results
//   - client: The public fetch pipeline and per-operation methods
//   - models: Shared data structures and error types
//
// Key Features
//
//   - Long Ranges:
//     Queries spanning more than the API's maximum window are split into
//     consecutive sub-requests and merged back transparently, with
//     duplicates on window boundaries removed.
//
//   - Resilience:
//     A shared rate limiter paces requests; HTTP 429 responses trigger
//     exponential backoff shared by all in-flight sub-requests, and
//     transient network failures are retried on a separate budget.
//
//   - Explicit Absence:
//     The platform's "no matching data" acknowledgement is distinguished
//     from failure. Dimensions without data are reported alongside the
//     observations that did arrive.
//
// Example Usage
//
//	c, err := client.New(client.Options{
//	    Transport: transport.Config{Token: os.Getenv("ENTSOGO_API_TOKEN")},
//	})
//	table, err := c.DayAheadPrices(ctx, start, end, "FR", "DE_LU")
//
// For more information about specific packages, see their respective
// documentation.
package entsogo
