package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"print-exporter/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, conv Prober) (*fiber.App, *mocks.Client) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), migratedDB(t), meshArchive(t), conv, "cgf-converter")
	NewHandler(svc).RegisterRoutes(app)
	return app, mockClient
}

func getJSON(t *testing.T, app *fiber.App, url string) (int, map[string]any) {
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleStructureCheck(t *testing.T) {
	app, mockClient := setupTestApp(t, probe{})
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())

	status, body := getJSON(t, app, "/integrity/structure")
	assert.Equal(t, 200, status)
	assert.Equal(t, "checked", body["status"])
	assert.NotEmpty(t, body["missing"])
}

func TestHandleStructureCheck_Fix(t *testing.T) {
	app, mockClient := setupTestApp(t, probe{})
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())
	mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	status, body := getJSON(t, app, "/integrity/structure?fix=true")
	assert.Equal(t, 200, status)
	assert.Equal(t, "fixed", body["status"])
	mockClient.AssertNumberOfCalls(t, "PutObject", 2)
}

func TestHandleCatalogCheck(t *testing.T) {
	app, _ := setupTestApp(t, probe{})

	status, body := getJSON(t, app, "/integrity/catalog")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["matched"])
}

func TestHandleConverterCheck(t *testing.T) {
	app, _ := setupTestApp(t, probe{})

	status, body := getJSON(t, app, "/integrity/converter")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["available"])
	assert.Equal(t, "cgf-converter", body["path"])
}

func TestHandleArchiveCheck(t *testing.T) {
	app, _ := setupTestApp(t, probe{})

	status, body := getJSON(t, app, "/integrity/archive")
	assert.Equal(t, 200, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["matches"])
}

func TestHandleIntegrityCheck_Unhealthy(t *testing.T) {
	app, mockClient := setupTestApp(t, probe{})
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())

	status, body := getJSON(t, app, "/integrity")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, false, body["healthy"])
}
