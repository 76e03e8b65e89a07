// Package s3 uploads rendered cluster artifacts to S3-compatible object
// storage such as Hetzner Object Storage.
package s3
