package tmdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/tmdb-people/pkg/httpclient"
)

const personPrefix = "person/"

// People is the client for the person/ endpoints.
type People struct {
	API
}

// NewPeople builds a People client on top of client.
func NewPeople(client httpclient.Client) *People {
	return &People{API: newAPI(client)}
}

func personPath(personID any, suffix string) string {
	path := personPrefix + fmt.Sprint(personID)
	if suffix != "" {
		path += "/" + suffix
	}
	return path
}

// GetPerson gets the general person information for a specific id.
func (p *People) GetPerson(ctx context.Context, personID any, params Parameters, headers Headers) (httpclient.Response, error) {
	return p.get(ctx, personPath(personID, ""), params, headers)
}

// GetCredits is an alias for GetCombinedCredits.
func (p *People) GetCredits(ctx context.Context, personID any, params Parameters, headers Headers) (httpclient.Response, error) {
	return p.GetCombinedCredits(ctx, personID, params, headers)
}

// GetMovieCredits gets the movie credits for a person.
func (p *People) GetMovieCredits(ctx context.Context, personID any, params Parameters, headers Headers) (httpclient.Response, error) {
	return p.get(ctx, personPath(personID, "movie_credits"), params, headers)
}

// GetTvCredits gets the TV credits for a person. Episode and season details
// for a record are available from the credit endpoint using its credit_id.
func (p *People) GetTvCredits(ctx context.Context, personID any, params Parameters, headers Headers) (httpclient.Response, error) {
	return p.get(ctx, personPath(personID, "tv_credits"), params, headers)
}

// GetCombinedCredits gets the movie and TV credits for a person in one response.
func (p *People) GetCombinedCredits(ctx context.Context, personID any, params Parameters, headers Headers) (httpclient.Response, error) {
	return p.get(ctx, personPath(personID, "combined_credits"), params, headers)
}

// GetImages gets the profile images for a person.
func (p *People) GetImages(ctx context.Context, personID any, params Parameters, headers Headers) (httpclient.Response, error) {
	return p.get(ctx, personPath(personID, "images"), params, headers)
}

// GetChanges gets the changes for a person, grouped by key and ordered by date
// descending. The server defaults to the last 24 hours and allows at most 14
// days per request (start_date / end_date parameters).
func (p *People) GetChanges(ctx context.Context, personID any, params Parameters, headers Headers) (httpclient.Response, error) {
	return p.get(ctx, personPath(personID, "changes"), params, headers)
}

// GetExternalIds gets the external ids (IMDb, social accounts, ...) for a person.
func (p *People) GetExternalIds(ctx context.Context, personID any, params Parameters, headers Headers) (httpclient.Response, error) {
	return p.get(ctx, personPath(personID, "external_ids"), params, headers)
}

// GetTaggedImages gets the images that have been tagged with a person.
//
// The upstream response does not include the media and media_type fields.
func (p *People) GetTaggedImages(ctx context.Context, personID any, params Parameters, headers Headers) (httpclient.Response, error) {
	return p.get(ctx, personPath(personID, "tagged_images"), params, headers)
}

// GetPopular gets the list of popular people. The list refreshes daily.
func (p *People) GetPopular(ctx context.Context, params Parameters, headers Headers) (httpclient.Response, error) {
	return p.get(ctx, personPrefix+"popular", params, headers)
}

// GetLatest gets the most recently created person.
func (p *People) GetLatest(ctx context.Context) (httpclient.Response, error) {
	return p.get(ctx, personPrefix+"latest", nil, nil)
}

// PersonResource names an id scoped person endpoint.
type PersonResource string

const (
	ResourceDetails         PersonResource = "details"
	ResourceCredits         PersonResource = "credits"
	ResourceMovieCredits    PersonResource = "movie_credits"
	ResourceTvCredits       PersonResource = "tv_credits"
	ResourceCombinedCredits PersonResource = "combined_credits"
	ResourceImages          PersonResource = "images"
	ResourceChanges         PersonResource = "changes"
	ResourceExternalIds     PersonResource = "external_ids"
	ResourceTaggedImages    PersonResource = "tagged_images"
)

// ErrUnknownResource is returned by Resource for names outside PersonResources.
var ErrUnknownResource = errors.New("unknown person resource")

type personCall func(p *People, ctx context.Context, personID any, params Parameters, headers Headers) (httpclient.Response, error)

var personCalls = map[PersonResource]personCall{
	ResourceDetails:         (*People).GetPerson,
	ResourceCredits:         (*People).GetCredits,
	ResourceMovieCredits:    (*People).GetMovieCredits,
	ResourceTvCredits:       (*People).GetTvCredits,
	ResourceCombinedCredits: (*People).GetCombinedCredits,
	ResourceImages:          (*People).GetImages,
	ResourceChanges:         (*People).GetChanges,
	ResourceExternalIds:     (*People).GetExternalIds,
	ResourceTaggedImages:    (*People).GetTaggedImages,
}

// PersonResources lists every id scoped resource in a stable order.
func PersonResources() []PersonResource {
	return []PersonResource{
		ResourceDetails,
		ResourceCredits,
		ResourceMovieCredits,
		ResourceTvCredits,
		ResourceCombinedCredits,
		ResourceImages,
		ResourceChanges,
		ResourceExternalIds,
		ResourceTaggedImages,
	}
}

// ParseResource normalizes name and reports whether it is a known resource.
func ParseResource(name string) (PersonResource, bool) {
	res := PersonResource(strings.ToLower(strings.TrimSpace(name)))
	_, ok := personCalls[res]
	return res, ok
}

// Resource calls the endpoint registered under name.
func (p *People) Resource(ctx context.Context, name PersonResource, personID any, params Parameters, headers Headers) (httpclient.Response, error) {
	call, ok := personCalls[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownResource, name)
	}
	return call(p, ctx, personID, params, headers)
}
