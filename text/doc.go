// Package text turns raw article text into an ordered list of sentences.
//
// The stages run in order:
//
//   - Sanitize drops blank lines and section markers, joins the remaining
//     lines with single spaces and removes parenthetical spans.
//   - Segmenter.Segment splits the sanitized text into sentences using a
//     Punkt sentence boundary model, so abbreviations, decimal numbers and
//     quoted punctuation do not produce false boundaries.
//   - Limit keeps a prefix of at most N sentences.
//
// None of the functions in this package fail; empty input yields empty output.
package text
