// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/starmaps/internal/models"
)

func TestLibraryRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	routes := []struct{ method, path, body string }{
		{http.MethodGet, "/api/history", ""},
		{http.MethodDelete, "/api/history", ""},
		{http.MethodGet, "/api/favorites", ""},
		{http.MethodPost, "/api/favorites", `{"movie_id":"arrival"}`},
		{http.MethodDelete, "/api/favorites/arrival", ""},
		{http.MethodPost, "/api/onboarding", `{}`},
		{http.MethodPut, "/api/profile", `{}`},
		{http.MethodPost, "/api/profile/generate-avatar", ""},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			assertError(t, env.do(t, rt.method, rt.path, rt.body, ""), http.StatusUnauthorized, ErrCodeUnauthorized)
		})
	}
}

func TestHistoryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.login(t)

	for _, q := range []string{"первый длинный запрос", "второй длинный запрос"} {
		env.do(t, http.MethodPost, "/api/movies/recommend", `{"query":"`+q+`"}`, token)
	}

	rec := env.do(t, http.MethodGet, "/api/history", "", token)
	var entries []models.HistoryEntry
	decodeBody(t, rec, &entries)
	if len(entries) != 2 || entries[0].Query != "второй длинный запрос" {
		t.Fatalf("history = %+v", entries)
	}

	if rec := env.do(t, http.MethodDelete, "/api/history", "", token); rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/history", "", token)
	entries = nil
	decodeBody(t, rec, &entries)
	if len(entries) != 0 {
		t.Errorf("history after clear = %+v", entries)
	}
}

func TestFavoritesEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/favorites", `{"movie_id":"arrival"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body)
	}
	var first models.Favorite
	decodeBody(t, rec, &first)
	if first.UserID != user.UserID || first.MovieTitle != "Прибытие" {
		t.Errorf("favorite = %+v", first)
	}

	rec = env.do(t, http.MethodPost, "/api/favorites", `{"movie_id":"arrival"}`, token)
	var second models.Favorite
	decodeBody(t, rec, &second)
	if second.ID != first.ID {
		t.Errorf("second add created %s, want existing %s", second.ID, first.ID)
	}

	assertError(t, env.do(t, http.MethodPost, "/api/favorites", `{"movie_id":"ghost"}`, token), http.StatusNotFound, ErrCodeNotFound)

	rec = env.do(t, http.MethodGet, "/api/favorites", "", token)
	var favs []models.Favorite
	decodeBody(t, rec, &favs)
	if len(favs) != 1 {
		t.Fatalf("favorites = %+v", favs)
	}

	for i := 0; i < 2; i++ {
		rec = env.do(t, http.MethodDelete, "/api/favorites/arrival", "", token)
		var msg models.MessageResponse
		decodeBody(t, rec, &msg)
		if rec.Code != http.StatusOK || msg.Message != "Removed" {
			t.Errorf("remove #%d = %d %+v", i+1, rec.Code, msg)
		}
	}
}
