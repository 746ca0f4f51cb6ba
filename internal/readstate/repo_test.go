package readstate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epaperhub/pkg/database"
	"epaperhub/pkg/models"
)

func testRepo(t *testing.T) (*Repo, *sql.DB) {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewRepo(db), db
}

func seedUser(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, username, password_hash) VALUES (?, ?, 'x')`, id, "user-"+id)
	require.NoError(t, err)
}

func TestRepo_UpsertAndGet(t *testing.T) {
	repo, db := testRepo(t)
	seedUser(t, db, "u-1")
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.ReadState{
		UserID: "u-1", Source: "vaartha", EditionID: 5, Date: "21/06/2024", PageIndex: 3,
	}))

	st, err := repo.Get(ctx, "u-1", "vaartha", 5)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, 3, st.PageIndex)
	assert.Equal(t, "21/06/2024", st.Date)
	assert.False(t, st.UpdatedAt.IsZero())
}

func TestRepo_GetMissingIsNil(t *testing.T) {
	repo, db := testRepo(t)
	seedUser(t, db, "u-1")

	st, err := repo.Get(context.Background(), "u-1", "vaartha", 5)
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestRepo_UpsertOverwritesPosition(t *testing.T) {
	repo, db := testRepo(t)
	seedUser(t, db, "u-1")
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.ReadState{
		UserID: "u-1", Source: "vaartha", EditionID: 5, Date: "20/06/2024", PageIndex: 7,
	}))
	require.NoError(t, repo.Upsert(ctx, models.ReadState{
		UserID: "u-1", Source: "vaartha", EditionID: 5, Date: "21/06/2024", PageIndex: 0,
	}))

	st, err := repo.Get(ctx, "u-1", "vaartha", 5)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "21/06/2024", st.Date, "a new day replaces the old position")
	assert.Equal(t, 0, st.PageIndex)

	items, err := repo.List(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRepo_ListIsPerUser(t *testing.T) {
	repo, db := testRepo(t)
	seedUser(t, db, "u-1")
	seedUser(t, db, "u-2")
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.ReadState{UserID: "u-1", Source: "eenadu", EditionID: 11, Date: "21/06/2024"}))
	require.NoError(t, repo.Upsert(ctx, models.ReadState{UserID: "u-2", Source: "vaartha", EditionID: 5, Date: "21/06/2024"}))

	items, err := repo.List(ctx, "u-2")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "vaartha", items[0].Source)
}
