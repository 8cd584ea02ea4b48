// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

/*
Package recommend turns free-text mood queries into recommendation graphs.

# Components

  - Validator: gates queries before synthesis. Asks the generative service for
    a verdict and falls back to a length heuristic whenever the service is
    unavailable or answers with something unparsable.
  - Synthesizer: asks the generative service for a graph drawn from the
    catalog, parses the untrusted answer and enriches it with catalog posters.
  - FallbackProvider: a fixed, hand-curated graph substituted whenever live
    synthesis fails.

Neither Validate nor Synthesize returns an error. Degradation is a visible
branch in their control flow, logged at warn level and counted in
starmaps_synthesis_total / starmaps_query_validations_total.

# Parsing

Generative output is parsed in two stages:

	doc, err := Unwrap(text)           // strip code fences, isolate the JSON object
	graph, stats, err := Decode(doc, catalog) // shape check, sanitize, schema-validate

Both stages report failures as *ParseError carrying the stage that failed.
Decode drops duplicate node ids (first wins), self-links and links whose
endpoints are not in the node set, so every returned link references a node
of the same graph.
*/
package recommend
