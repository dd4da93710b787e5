package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"print-exporter/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func memArchive(t *testing.T) *DirArchive {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/p4k/Data/Objects/Ships/AEGS/Gladius/gladius.cga":       "cga",
		"/p4k/Data/Objects/Ships/AEGS/Gladius/gladius.cgam":      "cgam",
		"/p4k/Data/Objects/Ships/AEGS/Gladius/gladius_lod1.cga":  "lod",
		"/p4k/Data/Objects/Ships/AEGS/Gladius/parts/gear.cga":    "gear",
		"/p4k/Data/Objects/Weapons/behr_lasercannon_s2.cga":      "weapon",
		"/p4k/Data/Objects/Weapons/behr_lasercannon_s2_lod0.cga": "weapon lod0",
		"/p4k/Data/Characters/armor.cdf":                         "<CharacterDefinition/>",
	}
	for p, body := range files {
		require.NoError(t, afero.WriteFile(fs, p, []byte(body), 0o644))
	}
	return NewDirArchive(fs, "/p4k")
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Data/Objects/a.cga", Clean(`\Data\Objects\.\a.cga`))
	assert.Equal(t, "Data/a.cga", Clean("/Data/Objects/../a.cga"))
	assert.Equal(t, "Data/Objects", Dir("Data/Objects/a.cga"))
	assert.Equal(t, "", Dir("a.cga"))
}

func TestDirArchive_ReadRaw(t *testing.T) {
	a := memArchive(t)
	ctx := context.Background()

	data, err := a.ReadRaw(ctx, "Data/Objects/Weapons/behr_lasercannon_s2.cga")
	require.NoError(t, err)
	assert.Equal(t, "weapon", string(data))

	data, err = a.ReadRaw(ctx, `data\objects\SHIPS\aegs\gladius\GLADIUS.cga`)
	require.NoError(t, err)
	assert.Equal(t, "cga", string(data))

	_, err = a.ReadRaw(ctx, "Data/Objects/missing.cga")
	assert.ErrorIs(t, err, ErrNotExist)

	_, err = a.ReadRaw(ctx, "Data/Objects")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestDirArchive_SearchByGlob(t *testing.T) {
	a := memArchive(t)
	ctx := context.Background()

	got, err := a.SearchByGlob(ctx, "Data/**/BEHR_LaserCannon_S2.cga")
	require.NoError(t, err)
	assert.Equal(t, []string{"Data/Objects/Weapons/behr_lasercannon_s2.cga"}, got)

	got, err = a.SearchByGlob(ctx, "Data/**/behr_lasercannon_s2_lod0.cga")
	require.NoError(t, err)
	assert.Equal(t, []string{"Data/Objects/Weapons/behr_lasercannon_s2_lod0.cga"}, got)

	got, err = a.SearchByGlob(ctx, "data/objects/ships/aegs/gladius/*")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Data/Objects/Ships/AEGS/Gladius/gladius.cga",
		"Data/Objects/Ships/AEGS/Gladius/gladius.cgam",
		"Data/Objects/Ships/AEGS/Gladius/gladius_lod1.cga",
	}, got)

	got, err = a.SearchByGlob(ctx, "Nope/**/*.cga")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSiblings(t *testing.T) {
	a := memArchive(t)
	got, err := Siblings(context.Background(), a, "Data/Objects/Weapons/behr_lasercannon_s2.cga")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func objectsChan(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestBucketArchive_SearchByGlob(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "bucket", minio.ListObjectsOptions{Prefix: "archive/Data/", Recursive: true}).
		Return(objectsChan(
			"archive/Data/Objects/Weapons/behr_lasercannon_s2.cga",
			"archive/Data/Objects/Weapons/other.cga",
			"archive/Data/Objects/Weapons/",
		))

	a := NewBucketArchive(client, "bucket", "/archive/")
	got, err := a.SearchByGlob(context.Background(), "Data/**/behr_lasercannon_s2.cga")
	require.NoError(t, err)
	assert.Equal(t, []string{"Data/Objects/Weapons/behr_lasercannon_s2.cga"}, got)
	client.AssertExpectations(t)
}

func TestBucketArchive_ReadRaw(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "bucket", "archive/Data/a.cga", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte("mesh"))), nil)
	client.On("GetObject", mock.Anything, "bucket", "archive/Data/B.cga", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})
	client.On("ListObjects", mock.Anything, "bucket", minio.ListObjectsOptions{Prefix: "archive/Data/"}).
		Return(objectsChan("archive/Data/b.cga"))
	client.On("GetObject", mock.Anything, "bucket", "archive/Data/b.cga", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte("lower"))), nil)
	client.On("GetObject", mock.Anything, "bucket", "archive/Data/c.cga", mock.Anything).
		Return(nil, errors.New("network down"))

	a := NewBucketArchive(client, "bucket", "archive")
	ctx := context.Background()

	data, err := a.ReadRaw(ctx, "Data/a.cga")
	require.NoError(t, err)
	assert.Equal(t, "mesh", string(data))

	data, err = a.ReadRaw(ctx, "Data/B.cga")
	require.NoError(t, err)
	assert.Equal(t, "lower", string(data))

	_, err = a.ReadRaw(ctx, "Data/c.cga")
	assert.ErrorContains(t, err, "network down")
}
