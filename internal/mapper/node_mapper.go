package mapper

import (
	"Folio/internal/dto"
	"Folio/internal/models"
)

func ToNodeGetDTO(node *models.Node) *dto.NodeGetDTO {
	nodeDTO := &dto.NodeGetDTO{
		ID:          node.ID,
		Name:        node.Name,
		Type:        string(node.Type),
		ParentID:    node.ParentID,
		Path:        node.Path,
		Category:    node.Category,
		Subcategory: node.Subcategory,
		UploadedBy:  node.UploadedBy,
		CreatedAt:   node.CreatedAt,
		UpdatedAt:   node.UpdatedAt,
	}
	if node.IsFile() {
		nodeDTO.File = &dto.FilePayload{
			Filename: deref(node.Filename),
			Title:    deref(node.Title),
			Author:   deref(node.Author),
			FileURL:  deref(node.FileURL),
			FilePath: deref(node.FilePath),
			FileType: deref(node.FileType),
			SHA256:   deref(node.Checksum),
		}
		if node.FileSize != nil {
			nodeDTO.File.FileSize = *node.FileSize
		}
	}
	return nodeDTO
}

func ToNodeGetDTOs(nodes []models.Node) []dto.NodeGetDTO {
	nodeDTOs := make([]dto.NodeGetDTO, 0, len(nodes))
	for i := range nodes {
		nodeDTOs = append(nodeDTOs, *ToNodeGetDTO(&nodes[i]))
	}
	return nodeDTOs
}

func ToUserGetDTO(user *models.User) *dto.UserGetDTO {
	return &dto.UserGetDTO{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     string(user.Role),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
