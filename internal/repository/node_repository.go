package repository

import (
	"Folio/internal/helpers"
	"Folio/internal/models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	likeEscapeClause = " ESCAPE '" + helpers.LikeEscape + "'"
	deleteBatchSize  = 500
)

type FileQuery struct {
	Text        string
	Category    string
	Subcategory string
	Limit       int
	Offset      int
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type NodeRepository interface {
	GenericRepository[models.Node]
	Transaction(ctx context.Context, fn func(repo NodeRepository) error) error
	FindByIDs(ctx context.Context, ids []string) ([]models.Node, error)
	FindFoldersByPaths(ctx context.Context, paths []string) ([]models.Node, error)
	LockNodes(ctx context.Context, ids []string) ([]models.Node, error)
	FindSibling(ctx context.Context, name string, parentID *string, nodeType models.NodeType) (*models.Node, error)
	FindChildren(ctx context.Context, parentID *string, category string) ([]models.Node, error)
	FindDescendants(ctx context.Context, path string) ([]models.Node, error)
	FindDescendantFiles(ctx context.Context, path string) ([]models.Node, error)
	Relocate(ctx context.Context, node *models.Node, name string, parentID *string, newPath string) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteSubtree(ctx context.Context, node *models.Node) error
	SearchFiles(ctx context.Context, query FileQuery) ([]models.Node, int64, error)
	CountByType(ctx context.Context, nodeType models.NodeType) (int64, error)
	CategoryBreakdown(ctx context.Context) ([]CategoryCount, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	FindAllOrdered(ctx context.Context) ([]models.Node, error)
}

type NodeRepositoryImpl[T models.Node] struct {
	GenericRepository[models.Node]
	db *gorm.DB
}

func NewNodeRepository(db *gorm.DB) NodeRepository {
	return &NodeRepositoryImpl[models.Node]{
		GenericRepository: NewGenericRepository[models.Node](db),
		db:                db,
	}
}

func (r *NodeRepositoryImpl[T]) Transaction(ctx context.Context, fn func(repo NodeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewNodeRepository(tx))
	})
}

func (r *NodeRepositoryImpl[T]) FindByIDs(ctx context.Context, ids []string) ([]models.Node, error) {
	var nodes []models.Node
	if len(ids) == 0 {
		return nodes, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&nodes).Error
	return nodes, err
}

func (r *NodeRepositoryImpl[T]) FindFoldersByPaths(ctx context.Context, paths []string) ([]models.Node, error) {
	var nodes []models.Node
	if len(paths) == 0 {
		return nodes, nil
	}
	err := r.db.WithContext(ctx).
		Where("type = ? AND path IN ?", models.NodeTypeFolder, paths).
		Find(&nodes).Error
	return nodes, err
}

// LockNodes reads ids with SELECT ... FOR UPDATE, shallowest path first, and
// holds the row locks until the surrounding transaction ends. sqlite has no
// row locks; there the write transaction itself is exclusive.
func (r *NodeRepositoryImpl[T]) LockNodes(ctx context.Context, ids []string) ([]models.Node, error) {
	var nodes []models.Node
	if len(ids) == 0 {
		return nodes, nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id IN ?", ids).
		Order("path ASC").
		Order("id ASC").
		Find(&nodes).Error
	return nodes, err
}

func whereParent(query *gorm.DB, parentID *string) *gorm.DB {
	if parentID == nil {
		return query.Where("parent_id IS NULL")
	}
	return query.Where("parent_id = ?", *parentID)
}

// FindSibling returns nil, nil when no node of nodeType named name lives
// under parentID.
func (r *NodeRepositoryImpl[T]) FindSibling(ctx context.Context, name string, parentID *string, nodeType models.NodeType) (*models.Node, error) {
	var node models.Node
	query := r.db.WithContext(ctx).Where("name = ? AND type = ?", name, nodeType)
	err := whereParent(query, parentID).First(&node).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &node, nil
}

// FindChildren lists the direct children of parentID, folders first and
// then by name.
func (r *NodeRepositoryImpl[T]) FindChildren(ctx context.Context, parentID *string, category string) ([]models.Node, error) {
	var nodes []models.Node
	query := whereParent(r.db.WithContext(ctx), parentID)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.
		Order(fmt.Sprintf("CASE WHEN type = '%s' THEN 0 ELSE 1 END", models.NodeTypeFolder)).
		Order("name ASC").
		Find(&nodes).Error
	return nodes, err
}

// findDescendants matches the path prefix in SQL and again in Go: LIKE
// ignores case on sqlite and under mysql's default collation.
func (r *NodeRepositoryImpl[T]) findDescendants(ctx context.Context, path string, nodeType models.NodeType, columns ...string) ([]models.Node, error) {
	prefix := helpers.DescendantPrefix(path)
	query := r.db.WithContext(ctx).Where("path LIKE ?"+likeEscapeClause, helpers.EscapeLike(prefix)+"%")
	if nodeType != "" {
		query = query.Where("type = ?", nodeType)
	}
	if len(columns) > 0 {
		query = query.Select(columns)
	}

	var candidates []models.Node
	if err := query.Order("path ASC").Find(&candidates).Error; err != nil {
		return nil, err
	}
	nodes := candidates[:0]
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate.Path, prefix) {
			nodes = append(nodes, candidate)
		}
	}
	return nodes, nil
}

// FindDescendants returns every node strictly below path, ordered by path.
func (r *NodeRepositoryImpl[T]) FindDescendants(ctx context.Context, path string) ([]models.Node, error) {
	return r.findDescendants(ctx, path, "")
}

func (r *NodeRepositoryImpl[T]) FindDescendantFiles(ctx context.Context, path string) ([]models.Node, error) {
	return r.findDescendants(ctx, path, models.NodeTypeFile)
}

// Relocate sets the node's name, parent and path, then rewrites the stored
// path of every descendant from the node's old prefix to newPath. Descendant
// parent links are left alone. Call it inside Transaction: a partial rewrite
// breaks the path invariant.
func (r *NodeRepositoryImpl[T]) Relocate(ctx context.Context, node *models.Node, name string, parentID *string, newPath string) error {
	oldPath := node.Path
	now := time.Now()

	fields := map[string]interface{}{
		"name":       name,
		"parent_id":  parentID,
		"path":       newPath,
		"updated_at": now,
	}
	if node.IsFile() {
		renamed := *node
		renamed.Name = name
		renamed.RefreshSearchText()
		fields["search_text"] = renamed.SearchText
	}
	err := r.db.WithContext(ctx).Model(&models.Node{}).Where("id = ?", node.ID).Updates(fields).Error
	if err != nil {
		return err
	}

	if node.IsFolder() && oldPath != newPath {
		descendants, err := r.findDescendants(ctx, oldPath, "", "id", "path")
		if err != nil {
			return err
		}
		for _, descendant := range descendants {
			rebased, ok := helpers.RebasePath(descendant.Path, oldPath, newPath)
			if !ok {
				continue
			}
			err = r.db.WithContext(ctx).Model(&models.Node{}).
				Where("id = ?", descendant.ID).
				Updates(map[string]interface{}{"path": rebased, "updated_at": now}).Error
			if err != nil {
				return err
			}
		}
	}

	node.Name = name
	node.ParentID = parentID
	node.Path = newPath
	node.UpdatedAt = now
	node.RefreshSearchText()
	return nil
}

// UpdateFields applies a column update. A change to name, title or author
// also refreshes the stored search text.
func (r *NodeRepositoryImpl[T]) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&models.Node{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return err
	}
	for _, column := range []string{"name", "title", "author"} {
		if _, ok := fields[column]; ok {
			return r.refreshSearchText(ctx, id)
		}
	}
	return nil
}

func (r *NodeRepositoryImpl[T]) refreshSearchText(ctx context.Context, id string) error {
	var node models.Node
	err := r.db.WithContext(ctx).Select("id", "type", "name", "title", "author").Where("id = ?", id).First(&node).Error
	if err != nil {
		return err
	}
	node.RefreshSearchText()
	return r.db.WithContext(ctx).Model(&models.Node{}).
		Where("id = ?", id).
		UpdateColumn("search_text", node.SearchText).Error
}

// DeleteSubtree removes node and everything below it. The parent_id foreign
// key cascades as well; deleting the descendants explicitly gives the same
// result on stores where the constraint is missing.
func (r *NodeRepositoryImpl[T]) DeleteSubtree(ctx context.Context, node *models.Node) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if node.IsFolder() {
			descendants, err := NewNodeRepository(tx).FindDescendants(ctx, node.Path)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(descendants))
			for _, descendant := range descendants {
				ids = append(ids, descendant.ID)
			}
			for start := 0; start < len(ids); start += deleteBatchSize {
				end := min(start+deleteBatchSize, len(ids))
				if err = tx.Where("id IN ?", ids[start:end]).Delete(&models.Node{}).Error; err != nil {
					return err
				}
			}
		}
		return tx.Where("id = ?", node.ID).Delete(&models.Node{}).Error
	})
}

// SearchFiles pages through files, newest first. An empty Text matches every
// file; otherwise name, title or author must contain it, ignoring case. The
// fold happens in Go on both sides: sqlite's LOWER only knows ASCII.
func (r *NodeRepositoryImpl[T]) SearchFiles(ctx context.Context, query FileQuery) ([]models.Node, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Node{}).Where("type = ?", models.NodeTypeFile)
	if text := strings.TrimSpace(query.Text); text != "" {
		pattern := "%" + helpers.EscapeLike(models.FoldSearchText(text)) + "%"
		base = base.Where("search_text LIKE ?"+likeEscapeClause, pattern)
	}
	if query.Category != "" {
		base = base.Where("category = ?", query.Category)
	}
	if query.Subcategory != "" {
		base = base.Where("subcategory = ?", query.Subcategory)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var nodes []models.Node
	err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id ASC").
		Limit(query.Limit).
		Offset(query.Offset).
		Find(&nodes).Error
	if err != nil {
		return nil, 0, err
	}
	return nodes, total, nil
}

func (r *NodeRepositoryImpl[T]) CountByType(ctx context.Context, nodeType models.NodeType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Node{}).Where("type = ?", nodeType).Count(&count).Error
	return count, err
}

// CategoryBreakdown counts files per non-empty category, largest first.
func (r *NodeRepositoryImpl[T]) CategoryBreakdown(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := r.db.WithContext(ctx).Model(&models.Node{}).
		Select("category, COUNT(*) AS count").
		Where("type = ? AND category <> ''", models.NodeTypeFile).
		Group("category").
		Order("count DESC").
		Order("category ASC").
		Scan(&counts).Error
	return counts, err
}

func (r *NodeRepositoryImpl[T]) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.Node{}).
		Where("category <> ''").
		Distinct().
		Pluck("category", &categories).Error
	return categories, err
}

// FindAllOrdered returns every node ordered by path.
func (r *NodeRepositoryImpl[T]) FindAllOrdered(ctx context.Context) ([]models.Node, error) {
	var nodes []models.Node
	err := r.db.WithContext(ctx).Order("path ASC").Find(&nodes).Error
	return nodes, err
}
