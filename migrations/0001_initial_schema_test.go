//go:build integration

package migrations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finalspaces/finalspaces-engine/pkg/testhelpers"
)

// Test_0001_InitialSchema verifies the initial schema creates every table
// the repositories query.
func Test_0001_InitialSchema(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	tables := []string{
		"deceased",
		"obituaries",
		"obituaries_draft",
		"user_generated_images",
		"saved_quotes",
		"user_uploads",
	}

	for _, table := range tables {
		var exists bool
		err := testDB.DB.Pool.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)`, table).Scan(&exists)
		require.NoError(t, err, "Failed to check table %s", table)
		assert.True(t, exists, "table %s should exist", table)
	}
}

// Test_0001_SavedQuotesIdentity verifies that (user_id, quote, author) is the
// logical identity of a saved quote: inserting the same pair twice leaves a
// single row.
func Test_0001_SavedQuotesIdentity(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	userID := "schema-test-" + uuid.NewString()
	insert := `
		INSERT INTO saved_quotes (id, user_id, quote, author, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id, quote, author) DO NOTHING`

	_, err := testDB.DB.Pool.Exec(ctx, insert, uuid.New(), userID, "To be", "Shakespeare")
	require.NoError(t, err)
	_, err = testDB.DB.Pool.Exec(ctx, insert, uuid.New(), userID, "To be", "Shakespeare")
	require.NoError(t, err)

	var count int
	err = testDB.DB.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM saved_quotes WHERE user_id = $1`, userID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "duplicate save should not add a second row")
}

// Test_0001_DeceasedCascade verifies that deleting an entry removes its
// obituaries, drafts, and generated images.
func Test_0001_DeceasedCascade(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	userID := "schema-test-" + uuid.NewString()
	entryID := uuid.New()

	_, err := testDB.DB.Pool.Exec(ctx, `
		INSERT INTO deceased (id, user_id, name, birth_date, death_date, birth_location, image)
		VALUES ($1, $2, 'Ada Lovelace', '1815-12-10', '1852-11-27', 'London', 'https://example.com/ada.jpg')`,
		entryID, userID)
	require.NoError(t, err)

	_, err = testDB.DB.Pool.Exec(ctx, `
		INSERT INTO obituaries (id, user_id, deceased_id, full_name)
		VALUES ($1, $2, $3, 'Ada Lovelace')`,
		uuid.New(), userID, entryID)
	require.NoError(t, err)

	_, err = testDB.DB.Pool.Exec(ctx, `
		INSERT INTO user_generated_images (id, user_id, deceased_id, epitaph_id)
		VALUES ($1, $2, $3, 'composition-1')`,
		uuid.New(), userID, entryID)
	require.NoError(t, err)

	_, err = testDB.DB.Pool.Exec(ctx, `DELETE FROM deceased WHERE id = $1`, entryID)
	require.NoError(t, err)

	var obituaries, images int
	err = testDB.DB.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM obituaries WHERE deceased_id = $1`, entryID).Scan(&obituaries)
	require.NoError(t, err)
	err = testDB.DB.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_generated_images WHERE deceased_id = $1`, entryID).Scan(&images)
	require.NoError(t, err)

	assert.Equal(t, 0, obituaries, "obituaries should cascade")
	assert.Equal(t, 0, images, "generated images should cascade")
}
