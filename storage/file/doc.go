// Package file implements the checkpoint store on the local filesystem.
//
// Checkpoint files are opaque MUS-encoded BuildProgress blobs written with a
// temp-file-and-rename protocol, so a crash mid-save leaves either the
// previous checkpoint or the new one, never a partial write.
package file
