package services

import (
	"Folio/internal/config"
	"Folio/internal/models"
	"Folio/internal/repository"
	"Folio/internal/storage"
	"Folio/internal/testutil"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestLogService() LogService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return LogService{Log: log}
}

type serviceFixture struct {
	db         *gorm.DB
	nodes      repository.NodeRepository
	users      repository.UserRepository
	orphans    repository.OrphanBlobRepository
	sessions   repository.SessionRepository
	blobs      storage.BlobStore
	tree       TreeService
	mover      MoverService
	files      FileService
	owner      Actor
	stranger   Actor
	admin      Actor
	logService LogService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	return newServiceFixtureWithStore(t, nil)
}

func newServiceFixtureWithStore(t *testing.T, blobs storage.BlobStore) *serviceFixture {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	if blobs == nil {
		fsStore, err := storage.NewFileSystemStore(t.TempDir(), "")
		require.NoError(t, err)
		blobs = fsStore
	}

	f := &serviceFixture{
		db:         db,
		nodes:      repository.NewNodeRepository(db),
		users:      repository.NewUserRepository(db),
		orphans:    repository.NewOrphanBlobRepository(db),
		sessions:   repository.NewSessionRepository(db),
		blobs:      blobs,
		logService: newTestLogService(),
	}
	f.tree = NewTreeService(f.nodes, f.users, f.orphans, f.blobs, f.logService)
	f.mover = NewMoverService(f.nodes, f.logService)
	f.files = NewFileService(f.tree, f.blobs, f.logService)

	owner := testutil.CreateUser(t, db, "owner", "password1", models.RoleUser)
	stranger := testutil.CreateUser(t, db, "stranger", "password1", models.RoleUser)
	admin := testutil.CreateUser(t, db, "admin", "password1", models.RoleAdmin)
	f.owner = Actor{ID: owner.ID, Role: owner.Role}
	f.stranger = Actor{ID: stranger.ID, Role: stranger.Role}
	f.admin = Actor{ID: admin.ID, Role: admin.Role}
	return f
}

func (f *serviceFixture) folder(t *testing.T, name string, parent *models.Node) *models.Node {
	t.Helper()
	req := CreateFolderRequest{Name: name}
	if parent != nil {
		req.ParentID = &parent.ID
	}
	folder, err := f.tree.CreateFolder(context.Background(), req, f.owner)
	require.NoError(t, err)
	return folder
}

func (f *serviceFixture) upload(t *testing.T, name string, parent *models.Node, content string) *models.Node {
	t.Helper()
	req := UploadRequest{Filename: name, Content: strings.NewReader(content), Title: "T", Author: "A"}
	if parent != nil {
		req.ParentID = &parent.ID
	}
	node, err := f.files.Upload(context.Background(), req, f.owner)
	require.NoError(t, err)
	return node
}

func testConfiguration() *config.Configuration {
	cfg := &config.Configuration{}
	cfg.Auth.SessionTTL = time.Hour
	cfg.Janitor.Schedule = "@every 1h"
	return cfg
}

// MockBlobStore lets tests fail individual blob operations.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Write(ctx context.Context, folder, name string, r io.Reader) (*storage.Blob, error) {
	args := m.Called(ctx, folder, name, r)
	if blob := args.Get(0); blob != nil {
		return blob.(*storage.Blob), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if rc := args.Get(0); rc != nil {
		return rc.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
