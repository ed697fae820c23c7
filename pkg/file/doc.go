// Package file provides read access to the content that filehash digests,
// with local filesystem and S3 backends behind one Storage interface.
//
// # Backends
//
// LocalStorage serves files from a base directory. Every name is resolved
// inside that directory, so "../" sequences cannot escape it.
//
//	store, err := file.NewLocalStorage("./files")
//	data, err := store.Read(ctx, "report.txt")
//
// S3Storage serves objects from a bucket of Amazon S3 or any S3-compatible
// service such as MinIO (set Endpoint and ForcePathStyle):
//
//	store, err := file.NewS3Storage(ctx, file.S3Config{
//		Bucket: "documents",
//		Region: "eu-central-1",
//	})
//
// New picks a backend from a Config loaded from the environment.
//
// # Errors
//
// A missing file is always reported as ErrFileNotFound, whatever the backend,
// so callers can tell "absent" apart from infrastructure failures with
// errors.Is. S3 errors are classified into the package sentinels
// (ErrAccessDenied, ErrServiceUnavailable, ErrOperationTimeout and so on).
package file
