// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the exporter needs: reading archive objects mirrored into a
// bucket, listing them for glob searches, and publishing finished exports.
// This abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	same, err := storage.ObjectMatches(ctx, client, "print-exporter", "exports/a.obj", data)
package storage
