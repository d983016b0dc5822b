package repository

import (
	"context"
	"testing"

	"vybeecho/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupConnectionDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Connection{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	user := &models.User{Name: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestConnectionRepository_Create_DuplicatePair(t *testing.T) {
	db := setupConnectionDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	err := repo.Create(ctx, &models.Connection{
		RequesterID: a.ID, AddresseeID: b.ID, Status: models.ConnectionStatusPending,
	})
	require.NoError(t, err)

	// Same orientation hits the composite unique index.
	err = repo.Create(ctx, &models.Connection{
		RequesterID: a.ID, AddresseeID: b.ID, Status: models.ConnectionStatusPending,
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", err.(*models.AppError).Code)

	var count int64
	require.NoError(t, db.Model(&models.Connection{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConnectionRepository_Create_ReverseOrientationRejected(t *testing.T) {
	db := setupConnectionDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	require.NoError(t, repo.Create(ctx, &models.Connection{
		RequesterID: a.ID, AddresseeID: b.ID, Status: models.ConnectionStatusPending,
	}))

	// The opposite orientation maps to the same canonical pair, so the
	// unique index rejects it even though the directed columns differ.
	// This is what stops two concurrent crossing sends, which each pass
	// the existence check before the other commits, from ending up with
	// two rows for one pair.
	err := repo.Create(ctx, &models.Connection{
		RequesterID: b.ID, AddresseeID: a.ID, Status: models.ConnectionStatusPending,
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", err.(*models.AppError).Code)

	var count int64
	require.NoError(t, db.Model(&models.Connection{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConnectionRepository_GetBetweenUsers(t *testing.T) {
	db := setupConnectionDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	conn, err := repo.GetBetweenUsers(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Nil(t, conn)

	require.NoError(t, repo.Create(ctx, &models.Connection{
		RequesterID: a.ID, AddresseeID: b.ID, Status: models.ConnectionStatusPending,
	}))

	// The pair row is found regardless of argument order.
	conn, err = repo.GetBetweenUsers(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, conn)

	flipped, err := repo.GetBetweenUsers(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, flipped)
	assert.Equal(t, conn.ID, flipped.ID)

	assert.Equal(t, b.ID, conn.OtherUserID(a.ID))
	assert.Equal(t, a.ID, conn.OtherUserID(b.ID))
}

func TestConnectionRepository_UpdateStatusAndDelete(t *testing.T) {
	db := setupConnectionDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	conn := &models.Connection{RequesterID: a.ID, AddresseeID: b.ID, Status: models.ConnectionStatusPending}
	require.NoError(t, repo.Create(ctx, conn))

	require.NoError(t, repo.UpdateStatus(ctx, conn.ID, models.ConnectionStatusConnected))
	got, err := repo.GetByID(ctx, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusConnected, got.Status)

	require.NoError(t, repo.Delete(ctx, conn.ID))
	_, err = repo.GetByID(ctx, conn.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)
}

func TestConnectionRepository_Graph(t *testing.T) {
	db := setupConnectionDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	c := seedUser(t, db, "carol")
	d := seedUser(t, db, "dave")

	// a<->b connected, a->c pending out, d->a pending in
	require.NoError(t, repo.Create(ctx, &models.Connection{RequesterID: a.ID, AddresseeID: b.ID, Status: models.ConnectionStatusConnected}))
	require.NoError(t, repo.Create(ctx, &models.Connection{RequesterID: a.ID, AddresseeID: c.ID, Status: models.ConnectionStatusPending}))
	require.NoError(t, repo.Create(ctx, &models.Connection{RequesterID: d.ID, AddresseeID: a.ID, Status: models.ConnectionStatusPending}))

	graph, err := repo.Graph(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, graph.Connections)
	assert.Equal(t, []uint{d.ID}, graph.Requests)
	assert.Equal(t, []uint{c.ID}, graph.SentRequests)

	// Uninvolved user gets empty, non-nil sets.
	empty, err := repo.Graph(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, empty.Connections)
	assert.Empty(t, empty.Connections)
	assert.NotNil(t, empty.Requests)
	assert.Empty(t, empty.Requests)
	assert.NotNil(t, empty.SentRequests)
	assert.Empty(t, empty.SentRequests)
}

func TestConnectionRepository_ListJoins(t *testing.T) {
	db := setupConnectionDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	c := seedUser(t, db, "carol")

	require.NoError(t, repo.Create(ctx, &models.Connection{RequesterID: a.ID, AddresseeID: b.ID, Status: models.ConnectionStatusConnected}))
	require.NoError(t, repo.Create(ctx, &models.Connection{RequesterID: c.ID, AddresseeID: a.ID, Status: models.ConnectionStatusPending}))

	connected, err := repo.ListConnectedUsers(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, connected, 1)
	assert.Equal(t, b.ID, connected[0].ID)

	inbound, err := repo.ListInboundPending(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, inbound, 1)
	assert.Equal(t, c.ID, inbound[0].ID)

	outbound, err := repo.ListOutboundPending(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, outbound, 1)
	assert.Equal(t, a.ID, outbound[0].ID)

	// b has no pending traffic at all.
	inbound, err = repo.ListInboundPending(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, inbound)
}
