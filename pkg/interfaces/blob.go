package interfaces

import "context"

// BlobStore abstracts the binary file backend that holds uploaded asset
// payloads and their derived mipmaps. Implementations must treat deletion of
// a missing path as a no-op rather than an error; asset cleanup is
// best-effort and callers never roll back on a missing file.
type BlobStore interface {
	Delete(ctx context.Context, path string) error
}

// UploadResult describes a file accepted by the upload intake. The intake
// itself (multipart parsing, extension whitelist, transcoding) lives outside
// this module; services only consume its output.
type UploadResult struct {
	Name string
	Ext  string
	Path string
}

// UploadIntake accepts an uploaded file and returns its stored location.
// Mipmap variants are derived upstream and addressed by convention relative
// to the returned path.
type UploadIntake interface {
	Accept(ctx context.Context, filename string, allowedExts []string) (*UploadResult, error)
}
