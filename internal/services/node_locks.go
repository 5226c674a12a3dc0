package services

import (
	"Folio/internal/apperr"
	"Folio/internal/helpers"
	"Folio/internal/models"
	"Folio/internal/repository"
	"context"
)

const lockAttempts = 3

// lockBranches row-locks the nodes named by ids and every folder above them
// for the rest of repo's transaction. Any write that rewrites a path under
// one of those folders has to lock the same rows first, so paths read here
// stay valid until commit. Ids that do not exist are absent from the result.
func lockBranches(ctx context.Context, repo repository.NodeRepository, ids ...string) (map[string]*models.Node, error) {
	for attempt := 0; attempt < lockAttempts; attempt++ {
		targets, err := repo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, apperr.Storage(err, "failed to load nodes")
		}

		lockIDs := make([]string, 0, len(targets))
		var ancestorPaths []string
		for i := range targets {
			lockIDs = append(lockIDs, targets[i].ID)
			ancestorPaths = append(ancestorPaths, helpers.AncestorPaths(targets[i].Path)...)
		}
		ancestors, err := repo.FindFoldersByPaths(ctx, ancestorPaths)
		if err != nil {
			return nil, apperr.Storage(err, "failed to load ancestors")
		}
		for i := range ancestors {
			lockIDs = append(lockIDs, ancestors[i].ID)
		}

		locked, err := repo.LockNodes(ctx, lockIDs)
		if err != nil {
			return nil, apperr.Storage(err, "failed to lock nodes")
		}
		if nodes, ok := coveredBranches(locked, ids); ok {
			return nodes, nil
		}
	}
	return nil, apperr.Conflict("the tree changed during the operation, try again")
}

// coveredBranches reports whether every ancestor of every requested node is
// among the locked rows. It fails when a rename or move committed between
// the unlocked lookup and the lock.
func coveredBranches(locked []models.Node, ids []string) (map[string]*models.Node, bool) {
	byID := make(map[string]*models.Node, len(locked))
	lockedPaths := make(map[string]bool, len(locked))
	for i := range locked {
		byID[locked[i].ID] = &locked[i]
		if locked[i].IsFolder() {
			lockedPaths[locked[i].Path] = true
		}
	}

	nodes := make(map[string]*models.Node, len(ids))
	for _, id := range ids {
		node, ok := byID[id]
		if !ok {
			continue
		}
		for _, path := range helpers.AncestorPaths(node.Path) {
			if !lockedPaths[path] {
				return nil, false
			}
		}
		nodes[id] = node
	}
	return nodes, true
}
