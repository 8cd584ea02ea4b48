// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

// Package catalog holds the immutable film catalog recommendations are drawn from.
//
// The catalog is assembled once at startup from one or more YAML sources. When
// several sources define the same id the last loaded definition wins. After
// Load returns, a Catalog is never mutated and may be read concurrently
// without locking.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tomtom215/starmaps/internal/models"
	"github.com/tomtom215/starmaps/internal/validation"
)

// ErrMovieNotFound is returned for ids absent from the catalog.
var ErrMovieNotFound = errors.New("movie not found")

//go:embed data/*.yaml
var embedded embed.FS

// Entry is one catalog film.
type Entry struct {
	ID                   string          `yaml:"id" json:"id" validate:"required,notblank,max=100"`
	Title                string          `yaml:"title" json:"title" validate:"required,notblank"`
	TitleLocalized       string          `yaml:"title_localized" json:"title_localized"`
	Year                 int             `yaml:"year" json:"year" validate:"gt=1800,lt=3000"`
	Descriptor           string          `yaml:"descriptor" json:"descriptor"`
	Tags                 []string        `yaml:"tags" json:"tags"`
	Poster               string          `yaml:"poster" json:"poster" validate:"omitempty,url"`
	Backdrop             string          `yaml:"backdrop" json:"backdrop" validate:"omitempty,url"`
	Description          string          `yaml:"description" json:"description"`
	DescriptionLocalized string          `yaml:"description_localized" json:"description_localized"`
	Rating               float64         `yaml:"rating" json:"rating" validate:"gte=0,lte=10"`
	WhyRecommended       []string        `yaml:"why_recommended" json:"why_recommended"`
	Reviews              []review        `yaml:"reviews" json:"reviews"`
	WatchProviders       []watchProvider `yaml:"watch_providers" json:"watch_providers"`
}

type review struct {
	Author string  `yaml:"author"`
	Text   string  `yaml:"text"`
	Rating float64 `yaml:"rating"`
	Date   string  `yaml:"date"`
}

type watchProvider struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Icon string `yaml:"icon"`
}

// DisplayTitle prefers the localized title.
func (e Entry) DisplayTitle() string {
	if e.TitleLocalized != "" {
		return e.TitleLocalized
	}
	return e.Title
}

// Detail converts the entry into its API representation.
func (e Entry) Detail() models.MovieDetail {
	d := models.MovieDetail{
		ID:                   e.ID,
		Title:                e.Title,
		TitleLocalized:       e.TitleLocalized,
		Year:                 e.Year,
		Poster:               e.Poster,
		Backdrop:             e.Backdrop,
		Description:          e.Description,
		DescriptionLocalized: e.DescriptionLocalized,
		WhyRecommended:       append([]string{}, e.WhyRecommended...),
		Rating:               e.Rating,
		Tags:                 append([]string{}, e.Tags...),
		Reviews:              make([]models.Review, len(e.Reviews)),
		WatchProviders:       make([]models.WatchProvider, len(e.WatchProviders)),
	}
	for i, r := range e.Reviews {
		d.Reviews[i] = models.Review(r)
	}
	for i, p := range e.WatchProviders {
		d.WatchProviders[i] = models.WatchProvider(p)
	}
	return d
}

// Source is a named YAML document of the form {films: [...]}.
type Source struct {
	Name string
	Data []byte
}

type document struct {
	Films []Entry `yaml:"films"`
}

// Catalog is an immutable id-keyed film set.
type Catalog struct {
	entries map[string]Entry
	order   []string
}

// Load merges sources in order. Later definitions of an id replace earlier ones
// but keep the position of the first definition.
func Load(sources ...Source) (*Catalog, error) {
	c := &Catalog{entries: make(map[string]Entry)}
	for _, src := range sources {
		var doc document
		if err := yaml.Unmarshal(src.Data, &doc); err != nil {
			return nil, fmt.Errorf("parse catalog source %s: %w", src.Name, err)
		}
		for i := range doc.Films {
			e := doc.Films[i]
			if verr := validation.ValidateStruct(&e); verr != nil {
				return nil, fmt.Errorf("catalog source %s entry %d (%q): %w", src.Name, i, e.ID, verr)
			}
			if _, seen := c.entries[e.ID]; !seen {
				c.order = append(c.order, e.ID)
			}
			c.entries[e.ID] = e
		}
	}
	if len(c.entries) == 0 {
		return nil, errors.New("catalog is empty")
	}
	return c, nil
}

// EmbeddedSources returns the built-in catalog files in lexical order.
func EmbeddedSources() ([]Source, error) {
	return sourcesFromFS(embedded, "data")
}

func sourcesFromFS(fsys fs.FS, dir string) ([]Source, error) {
	names, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list catalog files: %w", err)
	}
	sort.Strings(names)

	out := make([]Source, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read catalog file %s: %w", name, err)
		}
		out = append(out, Source{Name: name, Data: data})
	}
	return out, nil
}

// FileSources reads catalog files from disk, preserving the given order.
func FileSources(paths []string) ([]Source, error) {
	out := make([]Source, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read catalog file %s: %w", p, err)
		}
		out = append(out, Source{Name: p, Data: data})
	}
	return out, nil
}

// LoadDefault loads the embedded catalog followed by extraPaths.
func LoadDefault(extraPaths []string) (*Catalog, error) {
	sources, err := EmbeddedSources()
	if err != nil {
		return nil, err
	}
	extra, err := FileSources(extraPaths)
	if err != nil {
		return nil, err
	}
	return Load(append(sources, extra...)...)
}

// Lookup returns the entry for id.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Get returns the API detail for id or ErrMovieNotFound.
func (c *Catalog) Get(id string) (models.MovieDetail, error) {
	e, ok := c.entries[id]
	if !ok {
		return models.MovieDetail{}, fmt.Errorf("%w: %s", ErrMovieNotFound, id)
	}
	return e.Detail(), nil
}

// Poster returns the catalog poster for id, or "" if unknown.
func (c *Catalog) Poster(id string) string {
	return c.entries[id].Poster
}

// Len returns the number of films.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// All returns every entry in load order.
func (c *Catalog) All() []Entry {
	out := make([]Entry, len(c.order))
	for i, id := range c.order {
		out[i] = c.entries[id]
	}
	return out
}

// PromptListing renders one line per film for generative prompts:
//
//	- arrival (Прибытие, 2016) - философская sci-fi
func (c *Catalog) PromptListing() string {
	var b strings.Builder
	for i, id := range c.order {
		e := c.entries[id]
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s (%s, %d)", e.ID, e.DisplayTitle(), e.Year)
		if d := e.descriptor(); d != "" {
			b.WriteString(" - ")
			b.WriteString(d)
		}
	}
	return b.String()
}

func (e Entry) descriptor() string {
	if e.Descriptor != "" {
		return e.Descriptor
	}
	return strings.Join(e.Tags, ", ")
}
