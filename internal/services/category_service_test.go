package services

import (
	"Folio/internal/config"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCatalog_MergesConfigAndStore(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.tree.CreateFolder(context.Background(), CreateFolderRequest{Name: "P", Category: "Physics"}, f.owner)
	require.NoError(t, err)
	_, err = f.tree.CreateFolder(context.Background(), CreateFolderRequest{Name: "M", Category: "Math"}, f.owner)
	require.NoError(t, err)

	cfg := &config.Configuration{Categories: []string{"Math", " History ", ""}}
	catalog, err := NewCategoryCatalog(cfg, f.nodes)
	require.NoError(t, err)

	assert.Equal(t, []string{"History", "Math", "Physics"}, catalog.All())
}

func TestCategoryCatalog_AllReturnsCopy(t *testing.T) {
	catalog := NewStaticCategoryCatalog("b", "a")

	categories := catalog.All()
	categories[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, catalog.All())
	assert.NotNil(t, NewStaticCategoryCatalog().All())
}
