// Package mocks holds testify mocks of the service interfaces for handler
// and middleware tests.
package mocks

import (
	"Folio/internal/dto"
	"Folio/internal/models"
	"Folio/internal/services"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTreeService struct {
	mock.Mock
}

func (m *MockTreeService) ListChildren(ctx context.Context, parentID *string, category string) ([]models.Node, error) {
	args := m.Called(ctx, parentID, category)
	nodes, _ := args.Get(0).([]models.Node)
	return nodes, args.Error(1)
}

func (m *MockTreeService) GetBreadcrumb(ctx context.Context, nodeID *string) ([]dto.BreadcrumbEntry, error) {
	args := m.Called(ctx, nodeID)
	entries, _ := args.Get(0).([]dto.BreadcrumbEntry)
	return entries, args.Error(1)
}

func (m *MockTreeService) GetNode(ctx context.Context, id string) (*models.Node, error) {
	args := m.Called(ctx, id)
	node, _ := args.Get(0).(*models.Node)
	return node, args.Error(1)
}

func (m *MockTreeService) CreateFolder(ctx context.Context, req services.CreateFolderRequest, actor services.Actor) (*models.Node, error) {
	args := m.Called(ctx, req, actor)
	node, _ := args.Get(0).(*models.Node)
	return node, args.Error(1)
}

func (m *MockTreeService) UploadFile(ctx context.Context, req services.UploadFileRequest, actor services.Actor) (*models.Node, error) {
	args := m.Called(ctx, req, actor)
	node, _ := args.Get(0).(*models.Node)
	return node, args.Error(1)
}

func (m *MockTreeService) Rename(ctx context.Context, id string, newName string, actor services.Actor) error {
	args := m.Called(ctx, id, newName, actor)
	return args.Error(0)
}

func (m *MockTreeService) UpdateMetadata(ctx context.Context, id string, req services.UpdateMetadataRequest, actor services.Actor) (*models.Node, error) {
	args := m.Called(ctx, id, req, actor)
	node, _ := args.Get(0).(*models.Node)
	return node, args.Error(1)
}

func (m *MockTreeService) Delete(ctx context.Context, id string, actor services.Actor) (*services.DeleteResult, error) {
	args := m.Called(ctx, id, actor)
	result, _ := args.Get(0).(*services.DeleteResult)
	return result, args.Error(1)
}

func (m *MockTreeService) Search(ctx context.Context, query services.SearchQuery) (*services.SearchPage, error) {
	args := m.Called(ctx, query)
	page, _ := args.Get(0).(*services.SearchPage)
	return page, args.Error(1)
}

func (m *MockTreeService) ListDocuments(ctx context.Context, query services.DocumentQuery) (*services.SearchPage, error) {
	args := m.Called(ctx, query)
	page, _ := args.Get(0).(*services.SearchPage)
	return page, args.Error(1)
}

func (m *MockTreeService) Stats(ctx context.Context) (*services.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*services.Stats)
	return stats, args.Error(1)
}

type MockMoverService struct {
	mock.Mock
}

func (m *MockMoverService) Move(ctx context.Context, id string, newParentID *string, actor services.Actor) (*models.Node, error) {
	args := m.Called(ctx, id, newParentID, actor)
	node, _ := args.Get(0).(*models.Node)
	return node, args.Error(1)
}

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, req services.UploadRequest, actor services.Actor) (*models.Node, error) {
	args := m.Called(ctx, req, actor)
	node, _ := args.Get(0).(*models.Node)
	return node, args.Error(1)
}

func (m *MockFileService) Download(ctx context.Context, id string) (*services.Download, error) {
	args := m.Called(ctx, id)
	download, _ := args.Get(0).(*services.Download)
	return download, args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*models.Session, *models.User, error) {
	args := m.Called(ctx, username, password)
	session, _ := args.Get(0).(*models.Session)
	user, _ := args.Get(1).(*models.User)
	return session, user, args.Error(2)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) CreateUser(ctx context.Context, username, password, fullName string, role models.Role) (*models.User, error) {
	args := m.Called(ctx, username, password, fullName, role)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockAuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var (
	_ services.TreeService  = (*MockTreeService)(nil)
	_ services.MoverService = (*MockMoverService)(nil)
	_ services.FileService  = (*MockFileService)(nil)
	_ services.AuthService  = (*MockAuthService)(nil)
)
