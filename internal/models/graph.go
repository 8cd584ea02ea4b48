// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package models

// GraphNode is one recommended film.
type GraphNode struct {
	ID             string `json:"id" validate:"required,notblank"`
	Title          string `json:"title" validate:"required,notblank"`
	TitleLocalized string `json:"title_localized,omitempty"`
	Year           int    `json:"year" validate:"gt=0"`
	Poster         string `json:"poster,omitempty"`
	Vibe           string `json:"vibe" validate:"required,notblank"`
	IsTop          bool   `json:"is_top"`
}

// GraphLink is a weighted association between two nodes of the same graph.
type GraphLink struct {
	Source   string  `json:"source" validate:"required"`
	Target   string  `json:"target" validate:"required"`
	Strength float64 `json:"strength" validate:"gte=0,lte=1"`
}

// GraphResponse is the result of a recommendation query.
type GraphResponse struct {
	Nodes        []GraphNode `json:"nodes" validate:"required,min=1,unique=ID,dive"`
	Links        []GraphLink `json:"links" validate:"dive"`
	QuerySummary string      `json:"query_summary" validate:"required,notblank"`
}

// Clone returns a deep copy.
func (g GraphResponse) Clone() GraphResponse {
	out := GraphResponse{
		Nodes:        make([]GraphNode, len(g.Nodes)),
		Links:        make([]GraphLink, len(g.Links)),
		QuerySummary: g.QuerySummary,
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Links, g.Links)
	return out
}

// NodeIDs returns the set of node ids.
func (g GraphResponse) NodeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}

// QueryValidation is the verdict on a free-text query.
type QueryValidation struct {
	IsValid      bool     `json:"is_valid"`
	ErrorMessage string   `json:"error_message,omitempty"`
	Suggestions  []string `json:"suggestions"`
}

// QueryRequest is the body of validate and recommend calls. Blank and
// oversized queries are accepted here and answered with a rejection verdict
// or the fallback graph.
type QueryRequest struct {
	Query string `json:"query"`
}
