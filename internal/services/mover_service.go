package services

import (
	"Folio/internal/apperr"
	"Folio/internal/helpers"
	"Folio/internal/models"
	"Folio/internal/repository"
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

type MoverService interface {
	Move(ctx context.Context, id string, newParentID *string, actor Actor) (*models.Node, error)
}

type MoverServiceImpl struct {
	nodeRepository repository.NodeRepository
	logService     LogService
}

func NewMoverService(nodeRepository repository.NodeRepository, logService LogService) MoverService {
	return &MoverServiceImpl{
		nodeRepository: nodeRepository,
		logService:     logService,
	}
}

// Move reparents a node under newParentID, or to the root when it is nil.
// The node keeps its name; its path and the paths below it are rewritten in
// one transaction. Both branches are locked together, so two crossing moves
// cannot each pass the cycle check.
func (m *MoverServiceImpl) Move(ctx context.Context, id string, newParentID *string, actor Actor) (*models.Node, error) {
	parentID := normalizeID(newParentID)

	var moved *models.Node
	err := m.nodeRepository.Transaction(ctx, func(repo repository.NodeRepository) error {
		ids := []string{id}
		if parentID != nil && *parentID != id {
			ids = append(ids, *parentID)
		}
		locked, err := lockBranches(ctx, repo, ids...)
		if err != nil {
			return err
		}
		node, ok := locked[id]
		if !ok {
			return apperr.NotFound("node %s not found", id)
		}
		if !actor.CanModify(node) {
			return apperr.PermissionDenied("only the uploader or an admin can move this node")
		}

		parentPath := ""
		if parentID != nil {
			if *parentID == node.ID {
				return apperr.InvalidArgument("a node cannot be moved into itself")
			}
			parent, err := parentFolder(locked, *parentID)
			if err != nil {
				return err
			}
			if strings.HasPrefix(parent.Path, helpers.DescendantPrefix(node.Path)) {
				return apperr.InvalidArgument("a folder cannot be moved below one of its descendants")
			}
			parentPath = parent.Path
		}

		moved = node
		if sameParent(node.ParentID, parentID) {
			return nil
		}

		if node.IsFolder() {
			sibling, err := repo.FindSibling(ctx, node.Name, parentID, models.NodeTypeFolder)
			if err != nil {
				return err
			}
			if sibling != nil {
				return apperr.Conflict("a folder named %q already exists in the target", node.Name)
			}
		}
		return repo.Relocate(ctx, node, node.Name, parentID, helpers.JoinNodePath(parentPath, node.Name))
	})
	if err != nil {
		return nil, storeError(err, "failed to move node")
	}

	m.logService.Log.WithFields(logrus.Fields{
		"node": moved.ID,
		"path": moved.Path,
		"user": actor.ID,
	}).Info("node moved")
	return moved, nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
