package feeds

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "feeds.yaml", `
feeds:
  - id: popular-en
    name: Popular people
    type: Popular
    pages: 2
    resources: [details, External_IDs, details]
    parameters:
      language: en-US
    headers:
      Accept-Language: en-US
    request_delay_ms: 750
  - id: favourites
    type: watchlist
    person_ids: [287, 500, 287, -1]
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := reg.IDs(); len(got) != 2 || got[0] != "popular-en" || got[1] != "favourites" {
		t.Fatalf("unexpected ids %v", got)
	}

	popular, ok := reg.ByID("popular-en")
	if !ok {
		t.Fatalf("expected popular-en feed")
	}
	if popular.Type != TypePopular {
		t.Fatalf("type not normalized: %q", popular.Type)
	}
	if len(popular.Resources) != 2 || popular.Resources[1] != "external_ids" {
		t.Fatalf("resources not normalized: %v", popular.Resources)
	}
	if popular.RequestDelay() != 750*time.Millisecond {
		t.Fatalf("unexpected request delay %v", popular.RequestDelay())
	}
	if popular.Parameters["language"] != "en-US" {
		t.Fatalf("parameters not loaded: %v", popular.Parameters)
	}

	watch, _ := reg.ByID("favourites")
	if len(watch.PersonIDs) != 2 {
		t.Fatalf("person ids not deduped: %v", watch.PersonIDs)
	}
	if watch.Name != "favourites" || watch.Pages != 1 || len(watch.Resources) != 1 {
		t.Fatalf("defaults not applied: %+v", watch)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "feeds.json", `{"feeds":[{"id":"latest","type":"latest"}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	feed, ok := reg.ByID("latest")
	if !ok || feed.Type != TypeLatest {
		t.Fatalf("unexpected feed %+v", feed)
	}
	if feed.RequestDelay() != 250*time.Millisecond {
		t.Fatalf("default delay not applied: %v", feed.RequestDelay())
	}
}

func TestLoadRegistryRejectsInvalidFeeds(t *testing.T) {
	cases := map[string]string{
		"duplicate": `
feeds:
  - {id: a, type: latest}
  - {id: a, type: latest}
`,
		"unknown type": `
feeds:
  - {id: a, type: trending}
`,
		"unknown resource": `
feeds:
  - {id: a, type: latest, resources: [biography]}
`,
		"watchlist without ids": `
feeds:
  - {id: a, type: watchlist}
`,
		"too many pages": `
feeds:
  - {id: a, type: popular, pages: 501}
`,
		"empty": `feeds: []`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadRegistry(writeFile(t, "feeds.yaml", content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	if _, err := LoadRegistry(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
