// Package dataaccess holds the entity-specific fetchers used by the dashboard
// screens. Each one is a fetch.Fetcher bound to a fixed query.
package dataaccess

import (
	"context"
	"strings"

	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/fetch"
	"fueldesk/dashboard-service/internal/models"
)

const (
	stationsTable = "stations"
	profilesTable = "profiles"
)

// Stations lists every station ordered by name.
func Stations(client backend.Client, opts ...fetch.Option) *fetch.Fetcher[[]models.Station] {
	q := backend.From(stationsTable).Select("*").OrderBy("name", false)
	return fetch.New(func(ctx context.Context) backend.Result[[]models.Station] {
		stations, err := backend.List[models.Station](ctx, client, q)
		return backend.Wrap(stations, err)
	}, withDefaultName("stations", opts)...)
}

// Station loads one station by id. A nil or blank id resolves to an empty
// result without touching the backend.
func Station(client backend.Client, id *string, opts ...fetch.Option) *fetch.Fetcher[models.Station] {
	return fetch.New(func(ctx context.Context) backend.Result[models.Station] {
		if id == nil || strings.TrimSpace(*id) == "" {
			return backend.Empty[models.Station]()
		}
		q := backend.From(stationsTable).Select("*").Where(backend.Eq("id", *id))
		station, err := backend.One[models.Station](ctx, client, q)
		return backend.Wrap(station, err)
	}, withDefaultName("station", opts)...)
}

// Profiles lists every profile ordered by full name.
func Profiles(client backend.Client, opts ...fetch.Option) *fetch.Fetcher[[]models.Profile] {
	q := backend.From(profilesTable).Select("*").OrderBy("full_name", false)
	return fetch.New(func(ctx context.Context) backend.Result[[]models.Profile] {
		profiles, err := backend.List[models.Profile](ctx, client, q)
		return backend.Wrap(profiles, err)
	}, withDefaultName("profiles", opts)...)
}

func withDefaultName(name string, opts []fetch.Option) []fetch.Option {
	return append([]fetch.Option{fetch.WithName(name)}, opts...)
}
