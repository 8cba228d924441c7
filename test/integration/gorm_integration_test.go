package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"td-generator-be/internal/entity"
	"td-generator-be/internal/model"
	"td-generator-be/internal/repository/specification"
	"td-generator-be/internal/repository/unitofwork"
	"td-generator-be/pkg/database"
	"td-generator-be/pkg/selection"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRepository(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&model.Snapshot{}))

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(gormDB).NewUnitOfWork(ctx)
	repo := uow.SnapshotRepository()

	workspaceID := uuid.NewString()
	snapshot := entity.Snapshot{
		Id:          uuid.New(),
		Name:        "integration",
		WorkspaceId: workspaceID,
		Selections: []selection.Selection{{
			Scheme:       "blind",
			Property:     "properties",
			Node:         "n1",
			Chips:        []selection.Chip{{Label: "a"}, {Label: "b", Forced: true}},
			Range:        selection.Range{0, 1},
			LocationSets: []selection.LocationSet{{Location: "room1", NumFiles: 2}},
		}},
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, &snapshot))
	t.Cleanup(func() {
		gormDB.Unscoped().Delete(&model.Snapshot{}, snapshot.Id)
	})

	t.Run("FindOne round-trips the selections", func(t *testing.T) {
		found, err := repo.FindOne(ctx, specification.ByID{ID: snapshot.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, snapshot.Selections, found.Selections)
	})

	t.Run("FindAll filters by workspace", func(t *testing.T) {
		list, err := repo.FindAll(ctx, specification.ByWorkspace{WorkspaceID: workspaceID})
		require.NoError(t, err)
		assert.Len(t, list, 1)

		count, err := repo.Count(ctx, specification.ByWorkspace{WorkspaceID: workspaceID}, specification.NameLike{Query: "INTEG"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("Delete hides the snapshot", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, snapshot.Id))
		found, err := repo.FindOne(ctx, specification.ByID{ID: snapshot.Id})
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
