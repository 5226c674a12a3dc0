package services

import (
	"Folio/internal/apperr"
	"Folio/internal/helpers"
	"Folio/internal/models"
	"Folio/internal/storage"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// UploadRequest carries an incoming file. Content is read exactly once.
type UploadRequest struct {
	ParentID    *string
	Filename    string
	ContentType string
	Content     io.Reader
	Title       string
	Author      string
	Category    string
	Subcategory string
}

type Download struct {
	Content  io.ReadCloser
	Size     int64
	MimeType string
	Filename string
}

type FileService interface {
	Upload(ctx context.Context, req UploadRequest, actor Actor) (*models.Node, error)
	Download(ctx context.Context, id string) (*Download, error)
}

type FileServiceImpl struct {
	treeService TreeService
	blobStore   storage.BlobStore
	logService  LogService
}

func NewFileService(treeService TreeService, blobStore storage.BlobStore, logService LogService) FileService {
	return &FileServiceImpl{
		treeService: treeService,
		blobStore:   blobStore,
		logService:  logService,
	}
}

// Upload stores the bytes first and records metadata only once they are
// durable. If recording fails the blob is removed again.
func (s *FileServiceImpl) Upload(ctx context.Context, req UploadRequest, actor Actor) (*models.Node, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" {
		return nil, apperr.InvalidArgument("title and author are required")
	}
	filename, ok := helpers.ValidateNodeName(req.Filename)
	if !ok {
		return nil, apperr.InvalidArgument("invalid file name %q", req.Filename)
	}
	if req.Content == nil {
		return nil, apperr.InvalidArgument("file content is required")
	}

	category := strings.TrimSpace(req.Category)
	subcategory := strings.TrimSpace(req.Subcategory)
	parentID := normalizeID(req.ParentID)
	if parentID != nil && (category == "" || subcategory == "") {
		parent, err := s.treeService.GetNode(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if !parent.IsFolder() {
			return nil, apperr.InvalidArgument("parent %s is not a folder", *parentID)
		}
		if category == "" {
			category = parent.Category
		}
		if subcategory == "" {
			subcategory = parent.Subcategory
		}
	}

	storedName := helpers.StoredFileName(filename)
	blob, err := s.blobStore.Write(ctx, storage.FolderFor(category, subcategory), storedName, req.Content)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperr.Storage(err, "failed to store file content")
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.discardBlob(blob.Key, ctxErr)
		return nil, ctxErr
	}

	node, err := s.treeService.UploadFile(ctx, UploadFileRequest{
		ParentID:    parentID,
		Blob:        blob,
		Filename:    filename,
		StoredName:  storedName,
		MimeType:    helpers.DetectMimeType(filename, req.ContentType),
		Title:       req.Title,
		Author:      req.Author,
		Category:    category,
		Subcategory: subcategory,
	}, actor)
	if err != nil {
		s.discardBlob(blob.Key, err)
		return nil, err
	}
	return node, nil
}

func (s *FileServiceImpl) discardBlob(key string, cause error) {
	if err := s.blobStore.Delete(context.Background(), key); err != nil {
		s.logService.Log.WithFields(logrus.Fields{
			"blob":  key,
			"cause": cause.Error(),
			"error": err.Error(),
		}).Warn("failed to remove blob of a rejected upload")
	}
}

func (s *FileServiceImpl) Download(ctx context.Context, id string) (*Download, error) {
	node, err := s.treeService.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	if !node.IsFile() {
		return nil, apperr.InvalidArgument("%s is a folder", node.Name)
	}
	key := node.BlobKey()
	if key == "" {
		return nil, apperr.NotFound("file %s has no content", id)
	}

	content, err := s.blobStore.Open(ctx, key)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return nil, apperr.NotFound("content of file %s is missing", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "failed to open file content")
	}

	download := &Download{Content: content, Filename: node.Name, MimeType: helpers.DefaultMimeType}
	if node.FileSize != nil {
		download.Size = *node.FileSize
	}
	if node.FileType != nil && *node.FileType != "" {
		download.MimeType = *node.FileType
	}
	return download, nil
}
