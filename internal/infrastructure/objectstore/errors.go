package objectstore

import "errors"

var (
	// ErrDisabled indicates the S3 mirror is disabled in config.
	ErrDisabled = errors.New("objectstore: disabled in configuration")

	// ErrUploadFailed indicates a PutObject call failed.
	ErrUploadFailed = errors.New("objectstore: upload failed")
)
