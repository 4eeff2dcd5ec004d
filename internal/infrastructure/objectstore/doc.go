// Package objectstore mirrors export files to S3-compatible object storage.
//
// Each upload gets a timestamped key under the configured prefix, so the
// bucket keeps a history of exports while the local file is overwritten.
// Any S3-compatible endpoint works (AWS, MinIO); set Endpoint and
// PathStyle for self-hosted servers.
package objectstore
