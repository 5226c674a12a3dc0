package models

import (
	"strings"

	"gorm.io/gorm"
)

type NodeType string

const (
	NodeTypeFolder NodeType = "folder"
	NodeTypeFile   NodeType = "file"
)

// Node is a folder or a file in the tree. Path is materialized from the
// parent chain: "/" + Name for roots, Parent.Path + "/" + Name otherwise.
// The File* columns are only set for files.
type Node struct {
	BaseModel
	Name        string   `gorm:"type:varchar(255);not null;index:idx_nodes_parent_type_name,priority:3"`
	Type        NodeType `gorm:"type:varchar(10);not null;index:idx_nodes_parent_type_name,priority:2"`
	ParentID    *string  `gorm:"type:varchar(36);index:idx_nodes_parent_type_name,priority:1"`
	Path        string   `gorm:"type:varchar(768);not null;index"`
	Category    string   `gorm:"type:varchar(255);index"`
	Subcategory string   `gorm:"type:varchar(255)"`
	UploadedBy  string   `gorm:"type:varchar(36);not null;index"`

	Filename *string `gorm:"type:varchar(255)"`
	Title    *string `gorm:"type:varchar(512)"`
	Author   *string `gorm:"type:varchar(255)"`
	FileURL  *string `gorm:"type:varchar(2048)"`
	FilePath *string `gorm:"type:varchar(2048)"`
	FileSize *int64
	FileType *string `gorm:"type:varchar(255)"`
	Checksum *string `gorm:"type:varchar(64)"`

	// SearchText holds name, title and author of a file, lower-cased in Go so
	// that search folds case the same way on every dialect.
	SearchText *string `gorm:"type:text"`

	Uploader *User  `gorm:"foreignKey:UploadedBy;constraint:OnDelete:RESTRICT"`
	Children []Node `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

func (n *Node) IsFolder() bool {
	return n.Type == NodeTypeFolder
}

func (n *Node) IsFile() bool {
	return n.Type == NodeTypeFile
}

// BlobKey returns the blob store key of a file, or "" when there is none.
func (n *Node) BlobKey() string {
	if n.FilePath == nil {
		return ""
	}
	return *n.FilePath
}

// FoldSearchText lower-cases s the way SearchText is stored.
func FoldSearchText(s string) string {
	return strings.ToLower(s)
}

// RefreshSearchText recomputes SearchText from the current name, title and
// author. Folders carry none.
func (n *Node) RefreshSearchText() {
	if !n.IsFile() {
		n.SearchText = nil
		return
	}
	parts := []string{n.Name}
	if n.Title != nil {
		parts = append(parts, *n.Title)
	}
	if n.Author != nil {
		parts = append(parts, *n.Author)
	}
	text := FoldSearchText(strings.Join(parts, "\n"))
	n.SearchText = &text
}

func (n *Node) BeforeCreate(tx *gorm.DB) error {
	n.RefreshSearchText()
	return n.BaseModel.BeforeCreate(tx)
}
