package source

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/ormchart/internal/config"
)

type Params struct {
	Kind       string
	FilePath   string
	URL        string
	CacheTTL   time.Duration
	HTTPClient *http.Client
	DBPool     *pgxpool.Pool
	SQLitePath string
	Location   *time.Location
}

func ParamsFromConfig(cfg *config.Config, loc *time.Location) Params {
	return Params{
		Kind:       cfg.Source,
		FilePath:   cfg.SourceFilePath,
		URL:        cfg.SourceURL,
		CacheTTL:   cfg.SourceCacheTTL(),
		SQLitePath: cfg.SQLitePath,
		Location:   loc,
	}
}

// New builds the configured records source.
func New(params Params) (Source, error) {
	switch params.Kind {
	case config.SourceFile:
		return NewFileSource(params.FilePath, params.Location), nil
	case config.SourceHTTP:
		return NewHTTPSource(params.URL, params.HTTPClient, params.CacheTTL, params.Location), nil
	case config.SourcePostgres:
		if params.DBPool == nil {
			return nil, errors.New("postgres source requires a db pool")
		}
		return NewPostgresSource(params.DBPool, params.Location), nil
	case config.SourceSQLite:
		return NewSQLiteSource(params.SQLitePath, params.Location), nil
	default:
		return nil, fmt.Errorf("unknown source: %s", params.Kind)
	}
}
