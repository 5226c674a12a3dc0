package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateFolderRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	ParentID    *string `json:"parent_id"`
	Category    string  `json:"category" validate:"max=255"`
	Subcategory string  `json:"subcategory" validate:"max=255"`
}

type RenameRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// MoveRequest moves to the root when ParentID is null or absent.
type MoveRequest struct {
	ParentID *string `json:"parent_id"`
}

type UpdateMetadataRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=512"`
	Author      *string `json:"author" validate:"omitempty,max=255"`
	Category    *string `json:"category" validate:"omitempty,max=255"`
	Subcategory *string `json:"subcategory" validate:"omitempty,max=255"`
}
