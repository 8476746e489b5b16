// Package keyword implements lexical scoring of catalog items against a
// query token sequence.
//
// Scoring has two stages. Tokenize turns free text into a filtered token
// sequence (lowercased letter runs, stopwords and short tokens removed).
// Score then compares query tokens against four item fields, each with a
// fixed boost multiplier privileging the more meaningful fields:
//
//	name          3.0
//	testTypeCodes 2.5
//	jobLevels     2.0
//	description   1.0
//
// Term weights are log-dampened (1 + ln(count)) so a single repeated word
// cannot dominate the score. Exact field matches earn full credit; substring
// matches in either direction earn half. Queries mentioning "remote" or
// "adaptive"/"irt" additionally boost items whose capability flags match.
//
// All functions are pure and deterministic.
package keyword
