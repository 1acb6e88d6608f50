// Package provider is a small generic registry for swappable backends.
//
// Backends register a named Factory, typically from an init function, and
// callers create instances by name with a loose configuration map:
//
//	reg := provider.NewRegistry[media.Backend]()
//	reg.RegisterFactory("ffmpeg", ffmpeg.Factory())
//	b, err := reg.Create("ffmpeg", map[string]any{"ffmpeg_path": "/usr/bin/ffmpeg"})
package provider
