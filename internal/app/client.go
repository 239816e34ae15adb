package app

import (
	"github.com/samvad-hq/tmdb-people/internal/config"
	"github.com/samvad-hq/tmdb-people/pkg/httpclient"
	"github.com/samvad-hq/tmdb-people/pkg/tmdb"
)

// NewTMDBClient builds the TMDB facade over a resty transport configured from cfg.
func NewTMDBClient(cfg *config.Config) *tmdb.Client {
	transport := httpclient.NewRestyClient(httpclient.Options{
		BaseURL:     cfg.TMDBBaseURL,
		APIKey:      cfg.TMDBAPIKey,
		AccessToken: cfg.TMDBAccessToken,
		Language:    cfg.TMDBLanguage,
		UserAgent:   cfg.AppName,
		Timeout:     cfg.TMDBTimeout,
		RetryCount:  cfg.TMDBRetryCount,
	})
	return tmdb.NewClient(transport)
}
