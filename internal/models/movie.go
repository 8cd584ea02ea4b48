// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package models

// MovieDetail is the full catalog record served by the movie endpoint.
type MovieDetail struct {
	ID                   string          `json:"id"`
	Title                string          `json:"title"`
	TitleLocalized       string          `json:"title_localized,omitempty"`
	Year                 int             `json:"year"`
	Poster               string          `json:"poster,omitempty"`
	Backdrop             string          `json:"backdrop,omitempty"`
	Description          string          `json:"description,omitempty"`
	DescriptionLocalized string          `json:"description_localized,omitempty"`
	WhyRecommended       []string        `json:"why_recommended"`
	Rating               float64         `json:"rating"`
	Tags                 []string        `json:"tags"`
	Reviews              []Review        `json:"reviews"`
	WatchProviders       []WatchProvider `json:"watch_providers"`
}

// Review is a short critic or audience review.
type Review struct {
	Author string  `json:"author"`
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
	Date   string  `json:"date"`
}

// WatchProvider is a streaming service offering the film.
type WatchProvider struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon,omitempty"`
}
