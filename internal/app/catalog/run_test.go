package catalog

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_PortPrecedence(t *testing.T) {
	t.Setenv("CATALOG_PORT", "")
	t.Setenv("PORT", "")
	assert.Equal(t, "3333", LoadConfig().Port)

	t.Setenv("PORT", "4000")
	assert.Equal(t, "4000", LoadConfig().Port)

	t.Setenv("CATALOG_PORT", "4100")
	assert.Equal(t, "4100", LoadConfig().Port)
}

func TestNewInventory_FromSeedFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"products":[{"id":9,"title":"Boot","price":10,"image":"b"}],"stock":[{"id":9,"amount":4}]}`), 0o600))

	inventory, err := NewInventory(path)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	NewRouter(inventory).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/9", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":9,"amount":4}`, rec.Body.String())
}

func TestNewInventory_MissingSeedFile(t *testing.T) {
	_, err := NewInventory(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
