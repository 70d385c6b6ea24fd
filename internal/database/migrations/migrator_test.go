package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vladimiradmaev/carb-calculator/internal/logger"
)

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestRunAppliesInIDOrder(t *testing.T) {
	db := openMemoryDB(t)
	r := NewRegistry(logger.Discard())

	var order []string
	for _, id := range []string{"0002_b", "0001_a", "0003_c"} {
		id := id
		r.Register(id, func(*gorm.DB) error {
			order = append(order, id)
			return nil
		}, nil)
	}

	require.NoError(t, r.Run(db))
	assert.Equal(t, []string{"0001_a", "0002_b", "0003_c"}, order)

	// Second run finds everything recorded.
	order = nil
	require.NoError(t, r.Run(db))
	assert.Empty(t, order)
}

func TestLoadSQLSkipsOtherFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0001_t.sql":   {Data: []byte("CREATE TABLE t (id INTEGER PRIMARY KEY);")},
		"m/README.md":    {Data: []byte("docs")},
		"m/sub/0002.sql": {Data: []byte("broken")},
	}
	r := NewRegistry(logger.Discard())
	require.NoError(t, r.LoadSQL(fsys, "m"))
	require.Len(t, r.migrations, 1)

	db := openMemoryDB(t)
	require.NoError(t, r.Run(db))
	assert.True(t, db.Migrator().HasTable("t"))
}

func TestDefaultBundlesKVTable(t *testing.T) {
	r, err := Default(logger.Discard())
	require.NoError(t, err)
	assert.Contains(t, r.migrations, "0001_create_kv_entries")
}
