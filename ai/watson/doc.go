// Package watson implements keyword analysis with IBM Watson Natural Language
// Understanding.
//
// Each AnalyzeKeywords call posts the text to the service's /v1/analyze
// endpoint requesting the keywords feature only, and returns the keyword
// texts in response order. Throttling (429) and server errors are retried
// with exponential backoff; other failures are returned immediately.
package watson
