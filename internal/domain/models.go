package domain

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // non-cryptographic fingerprint
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	gotmdb "github.com/cyruzin/golang-tmdb"
)

// Domain contains the decoded TMDB person models the sync pipeline works with.

const imageBaseURL = "https://image.tmdb.org/t/p/"

// Person is the subset of person/{id} the pipeline reads.
type Person struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	KnownForDepartment string   `json:"known_for_department"`
	Popularity         float64  `json:"popularity"`
	ProfilePath        string   `json:"profile_path"`
	IMDbID             string   `json:"imdb_id"`
	Birthday           string   `json:"birthday"`
	Deathday           string   `json:"deathday"`
	AlsoKnownAs        []string `json:"also_known_as"`
	Adult              bool     `json:"adult"`
}

// PopularPage is one page of person/popular.
type PopularPage struct {
	Page         int      `json:"page"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
	Results      []Person `json:"results"`
}

// ExternalIDs is the person/{id}/external_ids payload.
type ExternalIDs struct {
	ID          int64  `json:"id"`
	IMDbID      string `json:"imdb_id"`
	WikidataID  string `json:"wikidata_id"`
	FacebookID  string `json:"facebook_id"`
	InstagramID string `json:"instagram_id"`
	TwitterID   string `json:"twitter_id"`
	TikTokID    string `json:"tiktok_id"`
}

// PersonRecord is what gets published downstream for a single person.
type PersonRecord struct {
	ID          int64                      `json:"id"`
	Name        string                     `json:"name,omitempty"`
	Department  string                     `json:"known_for_department,omitempty"`
	Popularity  float64                    `json:"popularity,omitempty"`
	ProfileURL  string                     `json:"profile_url,omitempty"`
	IMDbID      string                     `json:"imdb_id,omitempty"`
	Resources   map[string]json.RawMessage `json:"resources,omitempty"`
	FailedCalls []string                   `json:"failed_resources,omitempty"`
}

// NewPersonRecord seeds a record from a decoded person.
func NewPersonRecord(p Person) PersonRecord {
	return PersonRecord{
		ID:         p.ID,
		Name:       p.Name,
		Department: p.KnownForDepartment,
		Popularity: p.Popularity,
		ProfileURL: ProfileURL(p.ProfilePath, ""),
		IMDbID:     p.IMDbID,
		Resources:  map[string]json.RawMessage{},
	}
}

// Apply merges a fetched resource payload, lifting well-known fields onto the record.
func (r *PersonRecord) Apply(resource string, body []byte) error {
	if r.Resources == nil {
		r.Resources = map[string]json.RawMessage{}
	}
	if !json.Valid(body) {
		return fmt.Errorf("resource %s: invalid json payload", resource)
	}
	r.Resources[resource] = json.RawMessage(append([]byte(nil), body...))

	switch resource {
	case "details":
		var p Person
		if err := json.Unmarshal(body, &p); err != nil {
			return fmt.Errorf("decode person: %w", err)
		}
		r.merge(p)
	case "external_ids":
		var ids ExternalIDs
		if err := json.Unmarshal(body, &ids); err != nil {
			return fmt.Errorf("decode external ids: %w", err)
		}
		if ids.IMDbID != "" {
			r.IMDbID = ids.IMDbID
		}
	}
	return nil
}

func (r *PersonRecord) merge(p Person) {
	if p.Name != "" {
		r.Name = p.Name
	}
	if p.KnownForDepartment != "" {
		r.Department = p.KnownForDepartment
	}
	if p.Popularity != 0 {
		r.Popularity = p.Popularity
	}
	if p.ProfilePath != "" {
		r.ProfileURL = ProfileURL(p.ProfilePath, "")
	}
	if p.IMDbID != "" {
		r.IMDbID = p.IMDbID
	}
}

// volatileKeys are ranking fields TMDB recomputes on every refresh.
var volatileKeys = map[string]struct{}{
	"popularity":   {},
	"vote_average": {},
	"vote_count":   {},
}

// Fingerprint hashes the record id and resource payloads. Volatile keys are
// stripped at every depth, so popularity drift alone never changes it.
func (r PersonRecord) Fingerprint() string {
	h := sha1.New() //nolint:gosec // non-cryptographic fingerprint
	fmt.Fprintf(h, "%d", r.ID)

	keys := make([]string, 0, len(r.Resources))
	for k := range r.Resources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write(stablePayload(r.Resources[k]))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// stablePayload re-encodes raw with sorted keys and without volatile keys.
// Numbers keep their literal form.
func stablePayload(raw json.RawMessage) []byte {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return raw
	}
	out, err := json.Marshal(stripVolatile(v))
	if err != nil {
		return raw
	}
	return out
}

func stripVolatile(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			if _, drop := volatileKeys[k]; drop {
				delete(val, k)
				continue
			}
			val[k] = stripVolatile(child)
		}
	case []any:
		for i, child := range val {
			val[i] = stripVolatile(child)
		}
	}
	return v
}

// ProfileURL builds an image link for a profile path; size defaults to w342.
func ProfileURL(path, size string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if size == "" {
		size = gotmdb.W342
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return imageBaseURL + size + path
}
