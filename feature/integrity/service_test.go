package integrity

import (
	"context"
	"errors"
	"testing"

	"print-exporter/core/archive"
	"print-exporter/core/database"
	"print-exporter/core/records"
	"print-exporter/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type probe struct{ err error }

func (p probe) Available() error { return p.err }

func emptyListing() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func fullListing(_ context.Context, _ string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Key: opts.Prefix}
	close(ch)
	return ch
}

func migratedDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, records.NewStore(db, 0).Migrate())
	return db
}

func meshArchive(t *testing.T) archive.Archive {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p4k/Data/Objects/weapons/rifle.cga", []byte("mesh"), 0o644))
	return archive.NewDirArchive(fs, "/p4k")
}

func TestService_Structure(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), nil, nil, nil, "")

	t.Run("CheckStructure", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())

		missing, err := svc.CheckStructure(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"archive", "exports"}, missing)
	})

	t.Run("FixStructure", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
		err := svc.FixStructure(context.Background(), []string{"exports"})
		assert.NoError(t, err)
	})
}

func TestService_NotConfigured(t *testing.T) {
	svc := NewService(nil, "", zap.NewNop(), nil, nil, nil, "")

	_, err := svc.CheckStructure(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, svc.FixStructure(context.Background(), []string{"exports"}), ErrNotConfigured)
	_, err = svc.CheckConverter()
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = svc.CheckArchive(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = svc.CheckCatalog()
	assert.Error(t, err)
}

func TestService_RunAll(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "prints").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "prints", mock.Anything).Return(fullListing)

		svc := NewService(mockClient, "prints", zap.NewNop(), migratedDB(t), meshArchive(t), probe{}, "cgf-converter")
		report := svc.RunAll(context.Background())

		assert.True(t, report.Healthy)
		assert.Equal(t, "ok", report.Structure["status"])
	})

	t.Run("Converter Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "prints").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "prints", mock.Anything).Return(fullListing)

		svc := NewService(mockClient, "prints", zap.NewNop(), migratedDB(t), meshArchive(t), probe{err: errors.New("not found")}, "cgf-converter")
		report := svc.RunAll(context.Background())

		assert.False(t, report.Healthy)
	})

	t.Run("Nothing Wired", func(t *testing.T) {
		svc := NewService(nil, "", zap.NewNop(), nil, nil, nil, "")
		report := svc.RunAll(context.Background())

		assert.False(t, report.Healthy)
		assert.Equal(t, "error", report.Structure["status"])
	})
}
