// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/starmaps/internal/models"
)

// FallbackSummary is the query_summary of the fallback graph.
const FallbackSummary = "Подборка интеллектуального кино с глубоким смыслом."

var fallbackNodes = []models.GraphNode{
	{ID: "interstellar", Title: "Interstellar", TitleLocalized: "Интерстеллар", Year: 2014, Vibe: "эпос", IsTop: true},
	{ID: "inception", Title: "Inception", TitleLocalized: "Начало", Year: 2010, Vibe: "сны", IsTop: true},
	{ID: "dark_knight", Title: "The Dark Knight", TitleLocalized: "Тёмный рыцарь", Year: 2008, Vibe: "драма", IsTop: true},
	{ID: "arrival", Title: "Arrival", TitleLocalized: "Прибытие", Year: 2016, Vibe: "философия", IsTop: true},
	{ID: "blade_runner_2049", Title: "Blade Runner 2049", TitleLocalized: "Бегущий по лезвию", Year: 2017, Vibe: "неонуар"},
	{ID: "matrix", Title: "Matrix", TitleLocalized: "Матрица", Year: 1999, Vibe: "киберпанк"},
	{ID: "prestige", Title: "The Prestige", TitleLocalized: "Престиж", Year: 2006, Vibe: "загадка"},
	{ID: "memento", Title: "Memento", TitleLocalized: "Помни", Year: 2000, Vibe: "триллер"},
	{ID: "fight_club", Title: "Fight Club", TitleLocalized: "Бойцовский клуб", Year: 1999, Vibe: "культ"},
	{ID: "pulp_fiction", Title: "Pulp Fiction", TitleLocalized: "Криминальное чтиво", Year: 1994, Vibe: "классика"},
}

var fallbackLinks = []models.GraphLink{
	{Source: "interstellar", Target: "inception", Strength: 0.9},
	{Source: "interstellar", Target: "arrival", Strength: 0.8},
	{Source: "inception", Target: "prestige", Strength: 0.85},
	{Source: "inception", Target: "memento", Strength: 0.8},
	{Source: "dark_knight", Target: "prestige", Strength: 0.7},
	{Source: "arrival", Target: "blade_runner_2049", Strength: 0.75},
	{Source: "matrix", Target: "inception", Strength: 0.6},
	{Source: "matrix", Target: "fight_club", Strength: 0.5},
	{Source: "fight_club", Target: "pulp_fiction", Strength: 0.6},
	{Source: "memento", Target: "prestige", Strength: 0.7},
}

// FallbackProvider serves the fixed graph used when live synthesis fails.
// It is immutable after construction and safe for concurrent use.
type FallbackProvider struct {
	graph models.GraphResponse
}

// NewFallbackProvider builds the fallback graph with posters from the catalog.
// It fails if the curated graph is internally inconsistent.
func NewFallbackProvider(posters PosterLookup) (*FallbackProvider, error) {
	graph := models.GraphResponse{
		Nodes:        append([]models.GraphNode(nil), fallbackNodes...),
		Links:        append([]models.GraphLink(nil), fallbackLinks...),
		QuerySummary: FallbackSummary,
	}
	if posters != nil {
		for i := range graph.Nodes {
			graph.Nodes[i].Poster = posters.Poster(graph.Nodes[i].ID)
		}
	}

	ids := graph.NodeIDs()
	if len(ids) != len(graph.Nodes) {
		return nil, errors.New("fallback graph has duplicate node ids")
	}
	for _, l := range graph.Links {
		if _, ok := ids[l.Source]; !ok {
			return nil, fmt.Errorf("fallback link source %q is not a node", l.Source)
		}
		if _, ok := ids[l.Target]; !ok {
			return nil, fmt.Errorf("fallback link target %q is not a node", l.Target)
		}
	}
	return &FallbackProvider{graph: graph}, nil
}

// Graph returns a fresh copy of the fallback graph. It does not depend on the query.
func (p *FallbackProvider) Graph() models.GraphResponse {
	return p.graph.Clone()
}
