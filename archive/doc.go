// Package archive packages a segment output tree into a single zip
// artifact and fingerprints it.
//
// Entries are named by their slash-separated path relative to the root and
// carry no timestamps, so the same file set always yields the same bytes:
//
//	data, err := archive.Directory(root)
//	digest := archive.Digest(data)
package archive
