// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package recommend

import (
	"reflect"
	"testing"

	"github.com/tomtom215/starmaps/internal/validation"
)

func TestFallbackGraphIsConsistent(t *testing.T) {
	cat := loadCatalog(t)
	fb := newFallback(t, cat)
	graph := fb.Graph()

	if len(graph.Nodes) < 8 || len(graph.Nodes) > 20 {
		t.Errorf("node count = %d, want 8..20", len(graph.Nodes))
	}
	if graph.QuerySummary != FallbackSummary {
		t.Errorf("summary = %q", graph.QuerySummary)
	}
	if verr := validation.ValidateStruct(graph); verr != nil {
		t.Fatalf("fallback graph fails schema validation: %v", verr)
	}

	ids := graph.NodeIDs()
	if len(ids) != len(graph.Nodes) {
		t.Error("fallback node ids are not unique")
	}
	for _, l := range graph.Links {
		if _, ok := ids[l.Source]; !ok {
			t.Errorf("link source %q not in node set", l.Source)
		}
		if _, ok := ids[l.Target]; !ok {
			t.Errorf("link target %q not in node set", l.Target)
		}
	}
	for _, n := range graph.Nodes {
		if _, ok := cat.Lookup(n.ID); !ok {
			t.Errorf("fallback node %q is not in the catalog", n.ID)
		}
		if n.Poster == "" || n.Poster != cat.Poster(n.ID) {
			t.Errorf("node %q poster = %q, want catalog poster", n.ID, n.Poster)
		}
	}
}

func TestFallbackGraphIsFixedPoint(t *testing.T) {
	fb := newFallback(t, loadCatalog(t))

	first := fb.Graph()
	first.Nodes[0].Title = "mutated"
	first.Links[0].Strength = 0

	second := fb.Graph()
	third := fb.Graph()
	if !reflect.DeepEqual(second, third) {
		t.Error("fallback graph differs between calls")
	}
	if second.Nodes[0].Title == "mutated" || second.Links[0].Strength == 0 {
		t.Error("caller mutation leaked into the fallback graph")
	}
}

func TestFallbackWithoutPosters(t *testing.T) {
	fb, err := NewFallbackProvider(nil)
	if err != nil {
		t.Fatalf("NewFallbackProvider(nil) error = %v", err)
	}
	if got := fb.Graph(); len(got.Nodes) != 10 || len(got.Links) != 10 {
		t.Errorf("graph = %d nodes, %d links", len(got.Nodes), len(got.Links))
	}
}
