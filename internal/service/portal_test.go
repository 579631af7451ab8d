package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hearthkeep/hearth/internal/data"
	"github.com/hearthkeep/hearth/internal/domain/model"
	"github.com/hearthkeep/hearth/internal/mocks"
)

func newPortalFixture(t *testing.T) (*PortalService, *mocks.MockPortalRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPortalRepository(ctrl)
	svc, err := NewPortalService(PortalServiceOptions{Repo: repo})
	require.NoError(t, err)
	return svc, repo
}

func TestNewPortalService_RequiresRepo(t *testing.T) {
	_, err := NewPortalService(PortalServiceOptions{})
	require.Error(t, err)
}

func TestPortalService_Create(t *testing.T) {
	svc, repo := newPortalFixture(t)
	req := model.CreatePortalRequest{Name: "Bank", LoginURL: "https://bank.example.com", Password: "s3cret"}
	repo.EXPECT().Create(gomock.Any(), "owner-1", req).
		Return(&model.Portal{ID: "p1", OwnerID: "owner-1", Name: "Bank"}, nil)

	portal, err := svc.Create(context.Background(), "owner-1", req)
	require.NoError(t, err)
	assert.Equal(t, "p1", portal.ID)
}

func TestPortalService_GetMissing(t *testing.T) {
	svc, repo := newPortalFixture(t)
	repo.EXPECT().GetByID(gomock.Any(), "owner-1", "nope").Return(nil, data.ErrPortalNotFound)

	_, err := svc.GetByID(context.Background(), "owner-1", "nope")
	require.ErrorIs(t, err, data.ErrPortalNotFound)
}

func TestPortalService_Delete(t *testing.T) {
	svc, repo := newPortalFixture(t)
	repo.EXPECT().Delete(gomock.Any(), "owner-1", "p1").Return(true, nil)

	deleted, err := svc.Delete(context.Background(), "owner-1", "p1")
	require.NoError(t, err)
	assert.True(t, deleted)
}
