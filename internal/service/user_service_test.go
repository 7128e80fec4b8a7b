package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/authz"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRequiresAuthentication(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo())
	_, err := svc.Profile(context.Background(), authz.Identity{})
	require.Error(t, err)
	assert.Equal(t, 401, models.StatusOf(err))
}

func TestProfileReturnsCallerAccount(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDWithPostsFn = func(_ context.Context, id uint, _ int) (*models.User, error) {
		return &models.User{ID: id, Email: "a@x.com", Status: "I am new!"}, nil
	}

	svc := NewUserService(repo)
	user, err := svc.Profile(context.Background(), authz.Identity{UserID: 3, Authenticated: true})
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)
	assert.Equal(t, "I am new!", user.Status)
}

func TestUpdateStatusRequiresAuthentication(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo())
	_, err := svc.UpdateStatus(context.Background(), authz.Identity{}, "hello")
	require.Error(t, err)
	assert.Equal(t, 401, models.StatusOf(err))
}

func TestUpdateStatusValidates(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo())
	id := authz.Identity{UserID: 3, Authenticated: true}

	_, err := svc.UpdateStatus(context.Background(), id, "   ")
	require.Error(t, err)
	assert.Equal(t, 422, models.StatusOf(err))

	_, err = svc.UpdateStatus(context.Background(), id, strings.Repeat("x", 281))
	require.Error(t, err)
	assert.Equal(t, 422, models.StatusOf(err))
}

func TestUpdateStatusOnlyTouchesCaller(t *testing.T) {
	t.Parallel()

	var updatedID uint
	var updatedStatus string
	repo := noopUserRepo()
	repo.updateStatusFn = func(_ context.Context, id uint, status string) error {
		updatedID = id
		updatedStatus = status
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Status: updatedStatus}, nil
	}

	svc := NewUserService(repo)
	user, err := svc.UpdateStatus(context.Background(), authz.Identity{UserID: 3, Authenticated: true}, "Writing today")
	require.NoError(t, err)

	assert.Equal(t, uint(3), updatedID)
	assert.Equal(t, "Writing today", user.Status)
}
