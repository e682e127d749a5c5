/*
Package observability turns engine lifecycle hooks into Prometheus metrics.

It provides a Metrics collector whose Hooks() feed dispatch and command
events into counters and histograms, plus MergeHooks for combining several
hook sets into one.
*/
package observability
