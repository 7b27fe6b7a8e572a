// Package pipeline runs the text stage over one content document.
//
// A Pipeline loads the document from its state store, fetches the source
// article for its search term, then sanitizes, segments, caps and enriches
// the text before saving the document exactly once:
//
//	load -> fetch -> sanitize -> segment -> limit -> enrich -> save
//
// Load, fetch and save failures are fatal and nothing is saved. Keyword
// analysis is best-effort per sentence: a failed sentence keeps empty
// keywords, the failure is logged and reported in Report.Diagnostics, and the
// remaining sentences are still enriched.
//
// Keyword calls are made one at a time in sentence order. Batch runs many
// independent pipelines concurrently on a worker pool.
package pipeline
