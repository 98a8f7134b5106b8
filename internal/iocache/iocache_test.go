package iocache

import (
	"os"
	"sync"
	"testing"

	"github.com/polltrend/polltrend/schema"
	"github.com/stretchr/testify/assert"
)

func TestStoreInitialization(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		testDBPath := GetDBFilePath()
		defer func() { _ = os.Remove(testDBPath) }()
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		err := InitStores(schema.SQLiteBackend, "", "", "")
		assert.NoError(t, err, "Failed to initialize persistence")

		assert.NotNil(t, Manager, "Manager should not be nil")
		assert.NotNil(t, Manager.GetPageStore(), "Page store should not be nil")
		assert.Nil(t, Manager.GetRunStore(), "Run store should be nil when not configured")

		CloseStores()

		// Verify database file was created
		_, err = os.Stat(testDBPath)
		assert.False(t, os.IsNotExist(err), "Database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		testDBPath := GetDBFilePath()
		defer func() { _ = os.Remove(testDBPath) }()
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		// Multiple initializations should be safe (sync.Once)
		err1 := InitStores(schema.SQLiteBackend, "", "", "")
		err2 := InitStores(schema.SQLiteBackend, "", "", "")

		assert.NoError(t, err1, "First init should not fail")
		assert.NoError(t, err2, "Second init should not fail")

		// Multiple closes should be safe (sync.Once)
		CloseStores()
		CloseStores()
	})

	t.Run("none backend setup", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		err := InitStores(schema.NoneBackend, "", schema.NoneBackend, "")
		assert.NoError(t, err)
		assert.NotNil(t, Manager.GetPageStore())
		assert.NotNil(t, Manager.GetRunStore())

		CloseStores()
	})
}
