package handlers

import (
	"Folio/internal/apperr"
	"Folio/internal/dto"
	"Folio/internal/mapper"
	"Folio/internal/middleware"
	"Folio/internal/services"
	"mime"

	"github.com/gofiber/fiber/v2"
)

type FileSystemHandler struct {
	treeService  services.TreeService
	moverService services.MoverService
	fileService  services.FileService
}

func NewFileSystemHandler(
	treeService services.TreeService,
	moverService services.MoverService,
	fileService services.FileService,
) *FileSystemHandler {
	return &FileSystemHandler{
		treeService:  treeService,
		moverService: moverService,
		fileService:  fileService,
	}
}

func (h *FileSystemHandler) GetContents(c *fiber.Ctx) error {
	nodes, err := h.treeService.ListChildren(c.UserContext(), optionalQuery(c, "parent_id"), c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"items": mapper.ToNodeGetDTOs(nodes)})
}

func (h *FileSystemHandler) GetBreadcrumb(c *fiber.Ctx) error {
	breadcrumb, err := h.treeService.GetBreadcrumb(c.UserContext(), optionalQuery(c, "folder_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"breadcrumb": breadcrumb})
}

func (h *FileSystemHandler) CreateFolder(c *fiber.Ctx) error {
	var body dto.CreateFolderRequest
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}
	folder, err := h.treeService.CreateFolder(c.UserContext(), services.CreateFolderRequest{
		Name:        body.Name,
		ParentID:    body.ParentID,
		Category:    body.Category,
		Subcategory: body.Subcategory,
	}, middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"folder": mapper.ToNodeGetDTO(folder)})
}

// UploadFile takes the parent from the parent_id query parameter and the
// file plus its metadata from the multipart form.
func (h *FileSystemHandler) UploadFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, apperr.InvalidArgument("a file is required"))
	}
	content, err := fileHeader.Open()
	if err != nil {
		return respondError(c, apperr.InvalidArgument("unreadable file"))
	}
	defer content.Close()

	parentID := optionalQuery(c, "parent_id")
	if parentID == nil && c.FormValue("parent_id") != "" {
		value := c.FormValue("parent_id")
		parentID = &value
	}

	node, err := h.fileService.Upload(c.UserContext(), services.UploadRequest{
		ParentID:    parentID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Content:     content,
		Title:       c.FormValue("title"),
		Author:      c.FormValue("author"),
		Category:    c.FormValue("category"),
		Subcategory: c.FormValue("subcategory"),
	}, middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"file": mapper.ToNodeGetDTO(node)})
}

func (h *FileSystemHandler) GetNode(c *fiber.Ctx) error {
	node, err := h.treeService.GetNode(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"node": mapper.ToNodeGetDTO(node)})
}

func (h *FileSystemHandler) UpdateMetadata(c *fiber.Ctx) error {
	var body dto.UpdateMetadataRequest
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}
	node, err := h.treeService.UpdateMetadata(c.UserContext(), c.Params("id"), services.UpdateMetadataRequest{
		Title:       body.Title,
		Author:      body.Author,
		Category:    body.Category,
		Subcategory: body.Subcategory,
	}, middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"node": mapper.ToNodeGetDTO(node)})
}

func (h *FileSystemHandler) Rename(c *fiber.Ctx) error {
	var body dto.RenameRequest
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}
	if err := h.treeService.Rename(c.UserContext(), c.Params("id"), body.Name, middleware.ActorFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{})
}

func (h *FileSystemHandler) Move(c *fiber.Ctx) error {
	var body dto.MoveRequest
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}
	node, err := h.moverService.Move(c.UserContext(), c.Params("id"), body.ParentID, middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"node": mapper.ToNodeGetDTO(node)})
}

// Delete answers 200 even when some blobs could not be removed; the
// response then carries a partial_failure warning.
func (h *FileSystemHandler) Delete(c *fiber.Ctx) error {
	result, err := h.treeService.Delete(c.UserContext(), c.Params("id"), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	if result != nil && result.Partial() {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"warning":      apperr.CodePartialFailure,
			"failed_blobs": result.FailedBlobs,
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{})
}

func (h *FileSystemHandler) Download(c *fiber.Ctx) error {
	download, err := h.fileService.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, download.MimeType)
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": download.Filename}))
	return c.Status(fiber.StatusOK).SendStream(download.Content, int(download.Size))
}
