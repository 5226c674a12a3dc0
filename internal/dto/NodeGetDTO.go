package dto

import "time"

// NodeGetDTO is the envelope shared by folders and files. File is nil for
// folders.
type NodeGetDTO struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	ParentID    *string      `json:"parent_id"`
	Path        string       `json:"path"`
	Category    string       `json:"category"`
	Subcategory string       `json:"subcategory"`
	UploadedBy  string       `json:"uploaded_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	File        *FilePayload `json:"file,omitempty"`
}

type FilePayload struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	FileURL  string `json:"file_url"`
	FilePath string `json:"file_path"`
	FileSize int64  `json:"file_size"`
	FileType string `json:"file_type"`
	SHA256   string `json:"sha256,omitempty"`
}

type BreadcrumbEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}
