package services

import (
	"Folio/internal/apperr"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoverService_MoveRewritesPaths(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	a := f.folder(t, "A", nil)
	b := f.folder(t, "B", a)
	c := f.upload(t, "c.txt", b, "c")
	target := f.folder(t, "Target", nil)

	moved, err := f.mover.Move(ctx, b.ID, &target.ID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, "/Target/B", moved.Path)
	assert.Equal(t, target.ID, *moved.ParentID)

	file, err := f.tree.GetNode(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "/Target/B/c.txt", file.Path)

	moved, err = f.mover.Move(ctx, b.ID, nil, f.owner)
	require.NoError(t, err)
	assert.Equal(t, "/B", moved.Path)
	assert.Nil(t, moved.ParentID)

	assertPathsConsistent(t, f)
}

func TestMoverService_RejectsCycles(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	a := f.folder(t, "A", nil)
	b := f.folder(t, "B", a)

	_, err := f.mover.Move(ctx, a.ID, &a.ID, f.owner)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = f.mover.Move(ctx, a.ID, &b.ID, f.owner)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	assertPathsConsistent(t, f)
}

func TestMoverService_Errors(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	a := f.folder(t, "A", nil)
	f.folder(t, "Dup", a)
	dup := f.folder(t, "Dup", nil)
	file := f.upload(t, "x.txt", nil, "x")
	missing := "missing"

	_, err := f.mover.Move(ctx, dup.ID, &a.ID, f.owner)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = f.mover.Move(ctx, dup.ID, &file.ID, f.owner)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = f.mover.Move(ctx, dup.ID, &missing, f.owner)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.mover.Move(ctx, dup.ID, &a.ID, f.stranger)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	moved, err := f.mover.Move(ctx, file.ID, &a.ID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, "/A/x.txt", moved.Path)

	unchanged, err := f.mover.Move(ctx, file.ID, &a.ID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, "/A/x.txt", unchanged.Path)
}
