// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/tomtom215/starmaps/internal/models"
	"github.com/tomtom215/starmaps/internal/recommend"
)

const liveGraph = "Here you go:\n```json\n" + `{
	"nodes": [
		{"id": "arrival", "title": "Arrival", "title_localized": "Прибытие", "year": 2016, "vibe": "тишина", "is_top": true},
		{"id": "her", "title": "Her", "year": 2013, "vibe": "одиночество"}
	],
	"links": [{"source": "arrival", "target": "her", "strength": 0.7}],
	"query_summary": "Тихая фантастика."
}` + "\n```"

func TestRoot(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api", "/api/"} {
		rec := env.do(t, http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
		var info models.ServiceInfo
		decodeBody(t, rec, &info)
		if info.Message != "StarMaps API" || info.Version != "test" || info.MoviesCount != 28 {
			t.Errorf("%s info = %+v", path, info)
		}
	}
}

func TestValidateQuery(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		query string
		valid bool
	}{
		{"asdf", false},
		{"Хочу что-то атмосферное про одиночество", true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/movies/validate", `{"query":"`+tt.query+`"}`, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var v models.QueryValidation
			decodeBody(t, rec, &v)
			if v.IsValid != tt.valid {
				t.Errorf("IsValid = %v, want %v", v.IsValid, tt.valid)
			}
			if !v.IsValid && (v.ErrorMessage == "" || len(v.Suggestions) == 0) {
				t.Errorf("invalid verdict lacks guidance: %+v", v)
			}
		})
	}

	assertError(t, env.do(t, http.MethodPost, "/api/movies/validate", `{"query":`, ""), http.StatusBadRequest, ErrCodeValidation)
}

func TestUnusableQueriesStillAnswer200(t *testing.T) {
	env := newTestEnv(t)
	env.chat.reply, env.chat.err = liveGraph, nil
	token, user := env.login(t)

	queries := map[string]string{
		"empty":      "",
		"whitespace": "   ",
		"oversized":  strings.Repeat("я", recommend.MaxQueryLength+1),
	}
	for name, query := range queries {
		t.Run(name, func(t *testing.T) {
			body := `{"query":"` + query + `"}`

			rec := env.do(t, http.MethodPost, "/api/movies/validate", body, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("validate status = %d", rec.Code)
			}
			var v models.QueryValidation
			decodeBody(t, rec, &v)
			if v.IsValid || v.ErrorMessage == "" || len(v.Suggestions) == 0 {
				t.Errorf("verdict = %+v, want a rejection with suggestions", v)
			}

			rec = env.do(t, http.MethodPost, "/api/movies/recommend", body, token)
			if rec.Code != http.StatusOK {
				t.Fatalf("recommend status = %d", rec.Code)
			}
			var graph models.GraphResponse
			decodeBody(t, rec, &graph)
			if graph.QuerySummary != recommend.FallbackSummary {
				t.Errorf("summary = %q, want the fallback graph", graph.QuerySummary)
			}
		})
	}

	if env.chat.calls != 0 {
		t.Errorf("generative service called %d times for unusable queries", env.chat.calls)
	}
	entries, err := env.history.List(t.Context(), user.UserID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("history = %+v, want empty", entries)
	}
}

func TestRecommendFallbackIsAlways200(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/movies/recommend", `{"query":"что-нибудь умное"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var graph models.GraphResponse
	decodeBody(t, rec, &graph)
	if graph.QuerySummary != recommend.FallbackSummary || len(graph.Nodes) != 10 {
		t.Errorf("expected fallback graph, got %d nodes, summary %q", len(graph.Nodes), graph.QuerySummary)
	}
}

func TestRecommendLive(t *testing.T) {
	env := newTestEnv(t)
	env.chat.reply, env.chat.err = liveGraph, nil

	rec := env.do(t, http.MethodPost, "/api/movies/recommend", `{"query":"тихая фантастика"}`, "")
	var graph models.GraphResponse
	decodeBody(t, rec, &graph)
	if graph.QuerySummary != "Тихая фантастика." || len(graph.Nodes) != 2 || len(graph.Links) != 1 {
		t.Errorf("graph = %+v", graph)
	}
	if graph.Nodes[0].Poster != env.deps.Catalog.Poster("arrival") {
		t.Error("poster not taken from the catalog")
	}
}

func TestRecommendRecordsHistoryOnlyWhenAuthenticated(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.login(t)

	env.do(t, http.MethodPost, "/api/movies/recommend", `{"query":"анонимный запрос"}`, "")
	env.do(t, http.MethodPost, "/api/movies/recommend", `{"query":"мой запрос про космос"}`, token)

	entries, err := env.history.List(t.Context(), user.UserID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Query != "мой запрос про космос" {
		t.Errorf("history = %+v", entries)
	}
}

func TestMovieDetail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/movies/arrival", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var detail models.MovieDetail
	decodeBody(t, rec, &detail)
	if detail.ID != "arrival" || detail.Year != 2016 {
		t.Errorf("detail = %+v", detail)
	}

	assertError(t, env.do(t, http.MethodGet, "/api/movies/no_such_film", "", ""), http.StatusNotFound, ErrCodeNotFound)
}
