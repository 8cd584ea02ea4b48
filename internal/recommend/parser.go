// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package recommend

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/starmaps/internal/models"
	"github.com/tomtom215/starmaps/internal/validation"
)

// Stage identifies the parser step that rejected a document.
type Stage string

const (
	StageUnwrap Stage = "unwrap"
	StageDecode Stage = "decode"
	StageSchema Stage = "schema"
)

// defaultStrength is used for links that omit a strength.
const defaultStrength = 0.5

// ParseError reports why generative output could not become a graph.
type ParseError struct {
	Stage  Stage
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// PosterLookup resolves catalog posters by film id; "" means unknown.
type PosterLookup interface {
	Poster(id string) string
}

// DecodeStats describes what Decode discarded.
type DecodeStats struct {
	DuplicateNodes int
	DroppedLinks   int
}

// Unwrap strips optional code-fence markup around a JSON object and returns
// the object text.
func Unwrap(text string) ([]byte, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, &ParseError{Stage: StageUnwrap, Reason: "empty response"}
	}

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// Drop the info string ("json", "JSON", ...) up to the first newline.
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "json"), "JSON")
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, &ParseError{Stage: StageUnwrap, Reason: "no JSON object found"}
	}
	return []byte(s[start : end+1]), nil
}

type rawGraph struct {
	Nodes        *[]rawNode `json:"nodes"`
	Links        *[]rawLink `json:"links"`
	QuerySummary *string    `json:"query_summary"`
}

type rawNode struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	TitleLocalized string `json:"title_localized"`
	TitleRU        string `json:"title_ru"`
	Year           int    `json:"year"`
	Poster         string `json:"poster"`
	Vibe           string `json:"vibe"`
	IsTop          bool   `json:"is_top"`
}

type rawLink struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Strength *float64 `json:"strength"`
}

// Decode converts an unwrapped document into a validated graph.
//
// Nodes keep the service's payload except for poster, which is replaced by
// the catalog poster whenever the id is known. The first node wins on
// duplicate ids. Links are kept only when both endpoints are distinct nodes
// of the graph; strength defaults to 0.5 and is clamped to [0, 1].
func Decode(doc []byte, posters PosterLookup) (models.GraphResponse, DecodeStats, error) {
	var stats DecodeStats

	var raw rawGraph
	dec := json.NewDecoder(bytes.NewReader(doc))
	if err := dec.Decode(&raw); err != nil {
		return models.GraphResponse{}, stats, &ParseError{Stage: StageDecode, Reason: "malformed JSON", Err: err}
	}

	switch {
	case raw.Nodes == nil:
		return models.GraphResponse{}, stats, &ParseError{Stage: StageDecode, Reason: "missing nodes"}
	case raw.Links == nil:
		return models.GraphResponse{}, stats, &ParseError{Stage: StageDecode, Reason: "missing links"}
	case raw.QuerySummary == nil:
		return models.GraphResponse{}, stats, &ParseError{Stage: StageDecode, Reason: "missing query_summary"}
	}

	graph := models.GraphResponse{
		Nodes:        make([]models.GraphNode, 0, len(*raw.Nodes)),
		Links:        make([]models.GraphLink, 0, len(*raw.Links)),
		QuerySummary: strings.TrimSpace(*raw.QuerySummary),
	}

	seen := make(map[string]struct{}, len(*raw.Nodes))
	for _, n := range *raw.Nodes {
		id := strings.TrimSpace(n.ID)
		if _, dup := seen[id]; dup {
			stats.DuplicateNodes++
			continue
		}
		seen[id] = struct{}{}

		node := models.GraphNode{
			ID:             id,
			Title:          strings.TrimSpace(n.Title),
			TitleLocalized: strings.TrimSpace(n.TitleLocalized),
			Year:           n.Year,
			Poster:         n.Poster,
			Vibe:           strings.TrimSpace(n.Vibe),
			IsTop:          n.IsTop,
		}
		if node.TitleLocalized == "" {
			node.TitleLocalized = strings.TrimSpace(n.TitleRU)
		}
		if posters != nil {
			if poster := posters.Poster(id); poster != "" {
				node.Poster = poster
			}
		}
		graph.Nodes = append(graph.Nodes, node)
	}

	for _, l := range *raw.Links {
		source, target := strings.TrimSpace(l.Source), strings.TrimSpace(l.Target)
		_, okSource := seen[source]
		_, okTarget := seen[target]
		if !okSource || !okTarget || source == target {
			stats.DroppedLinks++
			continue
		}
		strength := defaultStrength
		if l.Strength != nil {
			strength = clamp(*l.Strength)
		}
		graph.Links = append(graph.Links, models.GraphLink{Source: source, Target: target, Strength: strength})
	}

	if verr := validation.ValidateStruct(graph); verr != nil {
		return models.GraphResponse{}, stats, &ParseError{Stage: StageSchema, Reason: "graph failed validation", Err: verr}
	}
	return graph, stats, nil
}

// ParseGraph runs Unwrap and Decode.
func ParseGraph(text string, posters PosterLookup) (models.GraphResponse, DecodeStats, error) {
	doc, err := Unwrap(text)
	if err != nil {
		return models.GraphResponse{}, DecodeStats{}, err
	}
	return Decode(doc, posters)
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return defaultStrength
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
