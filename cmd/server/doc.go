// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

/*
Command server runs the StarMaps API.

Startup order:

 1. Configuration: koanf layers (defaults, YAML file, environment)
 2. Logging: zerolog, with a slog bridge for the supervisor
 3. Store: BadgerDB (on disk, or in memory with STORE_IN_MEMORY=true)
 4. Catalog: embedded film data plus CATALOG_PATHS overrides
 5. Generative client: only when LLM_API_KEY is set
 6. Auth, recommendation, library and profile services
 7. HTTP router and the supervisor tree

Without LLM_API_KEY the service still runs: queries are judged by length and
every recommendation is the fixed fallback graph.

SIGINT and SIGTERM trigger a graceful shutdown bounded by
server.shutdown_timeout.
*/
package main
