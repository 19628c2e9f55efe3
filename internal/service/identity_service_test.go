package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestSyncCreatesOnFirstSight(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewIdentityService(users)

	user, err := svc.Sync(context.Background(), auth.Identity{
		ExternalID: "ext-1",
		Name:       "  Pat Doe  ",
		Email:      "pat@example.com",
		AvatarURL:  "https://img.example.com/pat.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pat Doe", user.Name)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
}

func TestSyncRefreshesExistingRecord(t *testing.T) {
	existing := &domain.User{
		ID:         "u-1",
		ExternalID: "ext-1",
		Name:       "Old Name",
		Email:      "pat@example.com",
		Role:       domain.RoleAgent,
	}
	users := newFakeUserRepo(existing)
	svc := NewIdentityService(users)

	user, err := svc.Sync(context.Background(), auth.Identity{
		ExternalID: "ext-1",
		Name:       "New Name",
		AvatarURL:  "https://img.example.com/new.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "New Name", user.Name)
	// Role assignments survive a profile refresh.
	assert.Equal(t, domain.RoleAgent, user.Role)
}

func TestSyncRejectsBlankExternalID(t *testing.T) {
	svc := NewIdentityService(newFakeUserRepo())

	_, err := svc.Sync(context.Background(), auth.Identity{ExternalID: "   "})
	assertStatus(t, err, 401)
}

func TestCurrentReportsMissingRecord(t *testing.T) {
	users := newFakeUserRepo(&domain.User{ID: "u-1", ExternalID: "ext-1"})
	svc := NewIdentityService(users)

	user, err := svc.Current(context.Background(), "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)

	_, err = svc.Current(context.Background(), "ext-unknown")
	assertStatus(t, err, 404)
}
