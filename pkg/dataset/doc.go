// Package dataset loads labeled scatter points from JSON or delimited text.
//
// # Overview
//
// Loading is a two-phase contract. [Detect] is a total classifier: it always
// returns a [Format] and never fails, not even when the source cannot be
// read. [Load] is the fallible half: it reads the source, parses it along the
// detected code path and returns an all-or-nothing [Dataset].
//
// # Detection
//
// A recognized file extension wins without looking at the content:
//
//   - .json: [FormatJSON]
//   - .csv, .tsv: [FormatTabular]
//
// Otherwise the content is tried as JSON, and anything that does not parse is
// assumed to be tabular. A read failure during detection also yields
// [FormatTabular]; the loader reports the real I/O error afterwards.
//
// # JSON Input
//
//	{
//	  "title": "Models",
//	  "xlabel": "Speed",
//	  "ylabel": "Quality",
//	  "points": [
//	    {"x": 1.2, "y": 3, "label": "alpha"},
//	    {"x": 0.4, "y": 1, "label": "beta"}
//	  ]
//	}
//
// points is required and may be empty. Unknown fields are ignored.
//
// # Tabular Input
//
// The first row is a header. [ResolveColumns] maps header names to the label,
// X and Y roles by keyword (label/name, x/speed/time, y/quality/tier) with a
// positional fallback, so no fixed column order is required:
//
//	name,speed_ms,quality_tier
//	alpha,1.2,3
//	beta,0.4,1
//
// # Errors
//
// Failures are *errors.Error values with one of three codes: IO_FAILURE,
// PARSE_FAILURE or SCHEMA_FAILURE. Row, line and column are attached when
// known. The first malformed row stops the load.
package dataset
