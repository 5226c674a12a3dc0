package services

import (
	"Folio/internal/apperr"
	"Folio/internal/dto"
	"Folio/internal/helpers"
	"Folio/internal/models"
	"Folio/internal/repository"
	"Folio/internal/storage"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	// MaxPage keeps the row offset within 32 bits at any allowed limit.
	MaxPage = math.MaxInt32 / MaxPageLimit

	maxTitleLength = 512
)

// Actor is the authenticated caller of a tree operation.
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanModify reports whether the actor may rename, move, edit or delete node.
func (a Actor) CanModify(node *models.Node) bool {
	return a.IsAdmin() || node.UploadedBy == a.ID
}

type CreateFolderRequest struct {
	Name        string
	ParentID    *string
	Category    string
	Subcategory string
}

// UploadFileRequest records a file whose bytes are already in the blob store.
type UploadFileRequest struct {
	ParentID    *string
	Blob        *storage.Blob
	Filename    string
	StoredName  string
	MimeType    string
	Title       string
	Author      string
	Category    string
	Subcategory string
}

type UpdateMetadataRequest struct {
	Title       *string
	Author      *string
	Category    *string
	Subcategory *string
}

type SearchQuery struct {
	Query       string
	Category    string
	Subcategory string
	Page        int
	Limit       int
}

type DocumentQuery struct {
	Category    string
	Subcategory string
	Page        int
	Limit       int
}

type SearchPage struct {
	Items      []models.Node
	Pagination dto.Pagination
}

// DeleteResult lists blob keys that could not be removed. The metadata
// delete succeeded regardless.
type DeleteResult struct {
	FailedBlobs []string
}

func (r *DeleteResult) Partial() bool {
	return len(r.FailedBlobs) > 0
}

type Stats struct {
	FileCount         int64                      `json:"file_count"`
	FolderCount       int64                      `json:"folder_count"`
	UserCount         int64                      `json:"user_count"`
	CategoryBreakdown []repository.CategoryCount `json:"category_breakdown"`
}

type TreeService interface {
	ListChildren(ctx context.Context, parentID *string, category string) ([]models.Node, error)
	GetBreadcrumb(ctx context.Context, nodeID *string) ([]dto.BreadcrumbEntry, error)
	GetNode(ctx context.Context, id string) (*models.Node, error)
	CreateFolder(ctx context.Context, req CreateFolderRequest, actor Actor) (*models.Node, error)
	UploadFile(ctx context.Context, req UploadFileRequest, actor Actor) (*models.Node, error)
	Rename(ctx context.Context, id string, newName string, actor Actor) error
	UpdateMetadata(ctx context.Context, id string, req UpdateMetadataRequest, actor Actor) (*models.Node, error)
	Delete(ctx context.Context, id string, actor Actor) (*DeleteResult, error)
	Search(ctx context.Context, query SearchQuery) (*SearchPage, error)
	ListDocuments(ctx context.Context, query DocumentQuery) (*SearchPage, error)
	Stats(ctx context.Context) (*Stats, error)
}

type treeServiceImpl struct {
	nodeRepository       repository.NodeRepository
	userRepository       repository.UserRepository
	orphanBlobRepository repository.OrphanBlobRepository
	blobStore            storage.BlobStore
	logService           LogService
}

func NewTreeService(
	nodeRepository repository.NodeRepository,
	userRepository repository.UserRepository,
	orphanBlobRepository repository.OrphanBlobRepository,
	blobStore storage.BlobStore,
	logService LogService,
) TreeService {
	return &treeServiceImpl{
		nodeRepository:       nodeRepository,
		userRepository:       userRepository,
		orphanBlobRepository: orphanBlobRepository,
		blobStore:            blobStore,
		logService:           logService,
	}
}

func (s *treeServiceImpl) ListChildren(ctx context.Context, parentID *string, category string) ([]models.Node, error) {
	nodes, err := s.nodeRepository.FindChildren(ctx, normalizeID(parentID), strings.TrimSpace(category))
	if err != nil {
		return nil, apperr.Storage(err, "failed to list children")
	}
	if nodes == nil {
		nodes = []models.Node{}
	}
	return nodes, nil
}

// GetBreadcrumb walks parent links up from nodeID. A dangling parent or a
// cycle ends the walk and the chain collected so far is returned.
func (s *treeServiceImpl) GetBreadcrumb(ctx context.Context, nodeID *string) ([]dto.BreadcrumbEntry, error) {
	chain := []dto.BreadcrumbEntry{}
	id := normalizeID(nodeID)
	if id == nil {
		return chain, nil
	}

	seen := make(map[string]bool)
	current := *id
	for {
		if seen[current] {
			s.logService.Log.WithField("node", current).Debug("breadcrumb cycle detected")
			break
		}
		seen[current] = true

		node, err := s.nodeRepository.FindByID(ctx, current)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logService.Log.WithField("node", current).Debug("breadcrumb chain broken")
			break
		}
		if err != nil {
			return nil, apperr.Storage(err, "failed to build breadcrumb")
		}
		chain = append(chain, dto.BreadcrumbEntry{ID: node.ID, Name: node.Name, Path: node.Path})
		if node.ParentID == nil {
			break
		}
		current = *node.ParentID
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (s *treeServiceImpl) GetNode(ctx context.Context, id string) (*models.Node, error) {
	return findNode(ctx, s.nodeRepository, id)
}

func (s *treeServiceImpl) CreateFolder(ctx context.Context, req CreateFolderRequest, actor Actor) (*models.Node, error) {
	name, ok := helpers.ValidateNodeName(req.Name)
	if !ok {
		return nil, apperr.InvalidArgument("folder name must be non-empty and must not contain %q", helpers.PathSeparator)
	}
	parentID := normalizeID(req.ParentID)

	var folder *models.Node
	err := s.nodeRepository.Transaction(ctx, func(repo repository.NodeRepository) error {
		parentPath := ""
		category := strings.TrimSpace(req.Category)
		subcategory := strings.TrimSpace(req.Subcategory)
		if parentID != nil {
			parent, err := resolveParentFolder(ctx, repo, *parentID)
			if err != nil {
				return err
			}
			parentPath = parent.Path
			if category == "" {
				category = parent.Category
			}
			if subcategory == "" {
				subcategory = parent.Subcategory
			}
		}

		sibling, err := repo.FindSibling(ctx, name, parentID, models.NodeTypeFolder)
		if err != nil {
			return err
		}
		if sibling != nil {
			return apperr.Conflict("a folder named %q already exists here", name)
		}

		folder = &models.Node{
			Name:        name,
			Type:        models.NodeTypeFolder,
			ParentID:    parentID,
			Path:        helpers.JoinNodePath(parentPath, name),
			Category:    category,
			Subcategory: subcategory,
			UploadedBy:  actor.ID,
		}
		return repo.Create(ctx, folder)
	})
	if err != nil {
		return nil, storeError(err, "failed to create folder")
	}

	s.logService.Log.WithFields(logrus.Fields{
		"node": folder.ID,
		"path": folder.Path,
		"user": actor.ID,
	}).Info("folder created")
	return folder, nil
}

// UploadFile records metadata for bytes already written to the blob store.
// File names are not checked for uniqueness among siblings.
func (s *treeServiceImpl) UploadFile(ctx context.Context, req UploadFileRequest, actor Actor) (*models.Node, error) {
	title := strings.TrimSpace(req.Title)
	author := strings.TrimSpace(req.Author)
	if title == "" || author == "" {
		return nil, apperr.InvalidArgument("title and author are required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength || utf8.RuneCountInString(author) > helpers.MaxNameLength {
		return nil, apperr.InvalidArgument("title or author is too long")
	}
	filename, ok := helpers.ValidateNodeName(req.Filename)
	if !ok {
		return nil, apperr.InvalidArgument("invalid file name %q", req.Filename)
	}
	if req.Blob == nil || req.Blob.Key == "" {
		return nil, apperr.InvalidArgument("file content has not been stored")
	}
	parentID := normalizeID(req.ParentID)

	id := uuid.NewString()
	fileURL := req.Blob.URL
	if fileURL == "" {
		fileURL = DownloadURL(id)
	}
	storedName := req.StoredName
	if storedName == "" {
		storedName = filename
	}
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = helpers.DetectMimeType(filename, "")
	}
	size := req.Blob.Size
	key := req.Blob.Key
	var checksum *string
	if sum := req.Blob.SHA256; sum != "" {
		checksum = &sum
	}

	var file *models.Node
	err := s.nodeRepository.Transaction(ctx, func(repo repository.NodeRepository) error {
		parentPath := ""
		category := strings.TrimSpace(req.Category)
		subcategory := strings.TrimSpace(req.Subcategory)
		if parentID != nil {
			parent, err := resolveParentFolder(ctx, repo, *parentID)
			if err != nil {
				return err
			}
			parentPath = parent.Path
			if category == "" {
				category = parent.Category
			}
			if subcategory == "" {
				subcategory = parent.Subcategory
			}
		}

		file = &models.Node{
			BaseModel:   models.BaseModel{ID: id},
			Name:        filename,
			Type:        models.NodeTypeFile,
			ParentID:    parentID,
			Path:        helpers.JoinNodePath(parentPath, filename),
			Category:    category,
			Subcategory: subcategory,
			UploadedBy:  actor.ID,
			Filename:    &storedName,
			Title:       &title,
			Author:      &author,
			FileURL:     &fileURL,
			FilePath:    &key,
			FileSize:    &size,
			FileType:    &mimeType,
			Checksum:    checksum,
		}
		return repo.Create(ctx, file)
	})
	if err != nil {
		return nil, storeError(err, "failed to record uploaded file")
	}

	s.logService.Log.WithFields(logrus.Fields{
		"node": file.ID,
		"path": file.Path,
		"blob": key,
		"size": size,
		"user": actor.ID,
	}).Info("file uploaded")
	return file, nil
}

// Rename changes the last path segment of a node and rewrites the paths of
// its descendants in the same transaction.
func (s *treeServiceImpl) Rename(ctx context.Context, id string, newName string, actor Actor) error {
	name, ok := helpers.ValidateNodeName(newName)
	if !ok {
		return apperr.InvalidArgument("name must be non-empty and must not contain %q", helpers.PathSeparator)
	}

	err := s.nodeRepository.Transaction(ctx, func(repo repository.NodeRepository) error {
		node, err := lockNode(ctx, repo, id)
		if err != nil {
			return err
		}
		if !actor.CanModify(node) {
			return apperr.PermissionDenied("only the uploader or an admin can rename this node")
		}
		if node.Name == name {
			return nil
		}

		sibling, err := repo.FindSibling(ctx, name, node.ParentID, node.Type)
		if err != nil {
			return err
		}
		if sibling != nil && sibling.ID != node.ID {
			return apperr.Conflict("a %s named %q already exists here", node.Type, name)
		}
		return repo.Relocate(ctx, node, name, node.ParentID, helpers.ReplaceLastSegment(node.Path, name))
	})
	if err != nil {
		return storeError(err, "failed to rename node")
	}

	s.logService.Log.WithFields(logrus.Fields{
		"node": id,
		"name": name,
		"user": actor.ID,
	}).Info("node renamed")
	return nil
}

func (s *treeServiceImpl) UpdateMetadata(ctx context.Context, id string, req UpdateMetadataRequest, actor Actor) (*models.Node, error) {
	node, err := findNode(ctx, s.nodeRepository, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(node) {
		return nil, apperr.PermissionDenied("only the uploader or an admin can edit this node")
	}

	fields := make(map[string]interface{})
	if req.Title != nil || req.Author != nil {
		if !node.IsFile() {
			return nil, apperr.InvalidArgument("title and author only apply to files")
		}
		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return nil, apperr.InvalidArgument("title must not be empty")
			}
			fields["title"] = title
		}
		if req.Author != nil {
			author := strings.TrimSpace(*req.Author)
			if author == "" {
				return nil, apperr.InvalidArgument("author must not be empty")
			}
			fields["author"] = author
		}
	}
	if req.Category != nil {
		fields["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Subcategory != nil {
		fields["subcategory"] = strings.TrimSpace(*req.Subcategory)
	}
	if len(fields) == 0 {
		return node, nil
	}
	fields["updated_at"] = time.Now()

	if err = s.nodeRepository.UpdateFields(ctx, node.ID, fields); err != nil {
		return nil, storeError(err, "failed to update node")
	}
	return findNode(ctx, s.nodeRepository, node.ID)
}

// Delete removes blobs before rows: the store cascades the rows but cannot
// reach the blob store. Blob failures are recorded for the janitor and
// reported in the result; they never stop the row delete.
func (s *treeServiceImpl) Delete(ctx context.Context, id string, actor Actor) (*DeleteResult, error) {
	node, err := findNode(ctx, s.nodeRepository, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(node) {
		return nil, apperr.PermissionDenied("only the uploader or an admin can delete this node")
	}

	var keys []string
	if key := node.BlobKey(); key != "" {
		keys = append(keys, key)
	}
	if node.IsFolder() {
		files, err := s.nodeRepository.FindDescendantFiles(ctx, node.Path)
		if err != nil {
			return nil, apperr.Storage(err, "failed to list files to delete")
		}
		for i := range files {
			if key := files[i].BlobKey(); key != "" {
				keys = append(keys, key)
			}
		}
	}

	result := &DeleteResult{}
	s.deleteBlobs(ctx, node, keys, result)

	// Files uploaded below the node after the keys were listed are picked
	// up again under the lock; their blobs go once the rows are gone.
	deleted := make(map[string]bool, len(keys))
	for _, key := range keys {
		deleted[key] = true
	}
	var lateKeys []string
	err = s.nodeRepository.Transaction(ctx, func(repo repository.NodeRepository) error {
		locked, err := lockBranches(ctx, repo, node.ID)
		if err != nil {
			return err
		}
		current, ok := locked[node.ID]
		if !ok {
			return nil
		}
		if current.IsFolder() {
			files, err := repo.FindDescendantFiles(ctx, current.Path)
			if err != nil {
				return err
			}
			for i := range files {
				if key := files[i].BlobKey(); key != "" && !deleted[key] {
					lateKeys = append(lateKeys, key)
				}
			}
		}
		return repo.DeleteSubtree(ctx, current)
	})
	if err != nil {
		return nil, apperr.Storage(err, "failed to delete node")
	}
	s.deleteBlobs(ctx, node, lateKeys, result)
	keys = append(keys, lateKeys...)

	s.logService.Log.WithFields(logrus.Fields{
		"node":   node.ID,
		"path":   node.Path,
		"blobs":  len(keys),
		"failed": len(result.FailedBlobs),
		"user":   actor.ID,
	}).Info("node deleted")
	return result, nil
}

// deleteBlobs removes keys from the blob store. Failures are recorded for the
// janitor and added to result.
func (s *treeServiceImpl) deleteBlobs(ctx context.Context, node *models.Node, keys []string, result *DeleteResult) {
	for _, key := range keys {
		if err := s.blobStore.Delete(ctx, key); err != nil {
			s.logService.Log.WithFields(logrus.Fields{
				"node":  node.ID,
				"blob":  key,
				"error": err.Error(),
			}).Warn("failed to delete blob, leaving it for the janitor")
			if recordErr := s.orphanBlobRepository.Record(ctx, key, err); recordErr != nil {
				s.logService.Log.WithFields(logrus.Fields{
					"blob":  key,
					"error": recordErr.Error(),
				}).Error("failed to record orphaned blob")
			}
			result.FailedBlobs = append(result.FailedBlobs, key)
		}
	}
}

func (s *treeServiceImpl) Search(ctx context.Context, query SearchQuery) (*SearchPage, error) {
	text := strings.TrimSpace(query.Query)
	if text == "" {
		return nil, apperr.InvalidArgument("search query must not be empty")
	}
	return s.findFiles(ctx, text, query.Category, query.Subcategory, query.Page, query.Limit)
}

func (s *treeServiceImpl) ListDocuments(ctx context.Context, query DocumentQuery) (*SearchPage, error) {
	return s.findFiles(ctx, "", query.Category, query.Subcategory, query.Page, query.Limit)
}

func (s *treeServiceImpl) findFiles(ctx context.Context, text, category, subcategory string, page, limit int) (*SearchPage, error) {
	page, limit = NormalizePage(page, limit)
	nodes, total, err := s.nodeRepository.SearchFiles(ctx, repository.FileQuery{
		Text:        text,
		Category:    strings.TrimSpace(category),
		Subcategory: strings.TrimSpace(subcategory),
		Limit:       limit,
		Offset:      (page - 1) * limit,
	})
	if err != nil {
		return nil, apperr.Storage(err, "failed to search files")
	}
	if nodes == nil {
		nodes = []models.Node{}
	}
	return &SearchPage{Items: nodes, Pagination: dto.NewPagination(total, page, limit)}, nil
}

func (s *treeServiceImpl) Stats(ctx context.Context) (*Stats, error) {
	files, err := s.nodeRepository.CountByType(ctx, models.NodeTypeFile)
	if err != nil {
		return nil, apperr.Storage(err, "failed to count files")
	}
	folders, err := s.nodeRepository.CountByType(ctx, models.NodeTypeFolder)
	if err != nil {
		return nil, apperr.Storage(err, "failed to count folders")
	}
	users, err := s.userRepository.Count(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "failed to count users")
	}
	breakdown, err := s.nodeRepository.CategoryBreakdown(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "failed to count categories")
	}
	if breakdown == nil {
		breakdown = []repository.CategoryCount{}
	}
	return &Stats{FileCount: files, FolderCount: folders, UserCount: users, CategoryBreakdown: breakdown}, nil
}

// NormalizePage applies the 1-based page default and clamps page and limit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// DownloadURL is the API route serving a file's bytes.
func DownloadURL(id string) string {
	return fmt.Sprintf("/file-system/%s/download", id)
}

func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return &trimmed
}

func findNode(ctx context.Context, repo repository.NodeRepository, id string) (*models.Node, error) {
	node, err := repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("node %s not found", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "failed to load node %s", id)
	}
	return node, nil
}

// lockNode is findNode for writers: the node and its ancestors stay locked
// until the transaction ends.
func lockNode(ctx context.Context, repo repository.NodeRepository, id string) (*models.Node, error) {
	locked, err := lockBranches(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	node, ok := locked[id]
	if !ok {
		return nil, apperr.NotFound("node %s not found", id)
	}
	return node, nil
}

// resolveParentFolder locks the parent branch so that its path cannot change
// before the caller's insert commits.
func resolveParentFolder(ctx context.Context, repo repository.NodeRepository, id string) (*models.Node, error) {
	locked, err := lockBranches(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	return parentFolder(locked, id)
}

func parentFolder(locked map[string]*models.Node, id string) (*models.Node, error) {
	parent, ok := locked[id]
	if !ok {
		return nil, apperr.NotFound("parent folder %s not found", id)
	}
	if !parent.IsFolder() {
		return nil, apperr.InvalidArgument("parent %s is not a folder", id)
	}
	return parent, nil
}

// storeError classifies an error coming out of the metadata store. A unique
// index violation means a concurrent writer won the sibling name.
func storeError(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("a node with this name already exists here")
	}
	return apperr.Storage(err, format, args...)
}
