package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{constants.DriverSQLite, constants.DriverMySQL, constants.DriverPostgres} {
		d, err := Dialector(&config.Config{DBDriver: driver, DBPath: "test.db"})
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "tasks.db?_foreign_keys=on&_txlock=immediate", sqliteDSN("tasks.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on&_txlock=immediate", sqliteDSN("file:x?mode=memory"))
}

func TestMigrate_CreatesSchemaAndIndexes(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Task{}))
	for _, idx := range indexes {
		assert.True(t, db.Migrator().HasIndex(idx.table, idx.name), idx.name)
	}

	// Running again must not try to recreate existing indexes
	require.NoError(t, Migrate(db))
	require.NoError(t, Ping(db))
}

func TestOwnedBy(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db))

	alice := models.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"}
	bob := models.User{Username: "bob", Email: "b@x.com", PasswordHash: "h"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	require.NoError(t, db.Create(&models.Task{Title: "a1", UserID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Task{Title: "a2", UserID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Task{Title: "b1", UserID: bob.ID}).Error)

	var tasks []models.Task
	require.NoError(t, db.Scopes(OwnedBy(alice.ID), Chronological).Find(&tasks).Error)

	require.Len(t, tasks, 2)
	assert.Equal(t, "a1", tasks[0].Title)
	assert.Equal(t, "a2", tasks[1].Title)
}
