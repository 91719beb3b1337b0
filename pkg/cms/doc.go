// Package cms implements the content backend for the marketing site: blog
// posts with dual-mode slug/id resolution, the contact-message inbox, and an
// image upload pipeline over pluggable blob storage backends.
//
// Construct a Service with New and the functional options, injecting a
// Repository for documents and a BlobStore for uploads:
//
//	svc, err := cms.New(
//		cms.WithRepository(memory.New()),
//		cms.WithBlobStore(fsstore),
//	)
//
// Storage backends live under pkg/cms/storage and all satisfy the same
// BlobStore contract; which one runs is a deployment decision made in
// pkg/cms/config, not in this package.
package cms
