package source_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/ormchart/internal/config"
	"github.com/2beens/ormchart/internal/source"
)

func TestNew(t *testing.T) {
	cfg, err := config.Parse("dev", "[development]\nsource = \"http\"\nsource_url = \"http://localhost/records.txt\"\n")
	require.NoError(t, err)

	s, err := source.New(source.ParamsFromConfig(cfg, time.UTC))
	require.NoError(t, err)
	assert.IsType(t, &source.HTTPSource{}, s)

	s, err = source.New(source.Params{Kind: config.SourceFile, FilePath: "records.txt"})
	require.NoError(t, err)
	assert.IsType(t, &source.FileSource{}, s)

	s, err = source.New(source.Params{Kind: config.SourceSQLite, SQLitePath: "records.db"})
	require.NoError(t, err)
	assert.IsType(t, &source.SQLiteSource{}, s)

	_, err = source.New(source.Params{Kind: config.SourcePostgres})
	assert.ErrorContains(t, err, "db pool")

	_, err = source.New(source.Params{Kind: "ftp"})
	assert.ErrorContains(t, err, "unknown source")
}
