// Package upload implements the chunked file upload of the WeTransfer API.
//
// Each registered file is split into parts of [DefaultChunkSize] bytes
// (the last part may be shorter). For every part the uploader requests a
// presigned URL from the API and PUTs the bytes there; once every part is
// stored the file is completed. Part numbers are 1-based on the wire.
//
// Parts of one file are sent in parallel, bounded by Config.Concurrency.
// A failed part is retried with exponential backoff, requesting a fresh URL
// each time. Progress is reported through a [Tracker].
package upload
