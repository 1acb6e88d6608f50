package media

import (
	"fmt"

	"github.com/kbukum/diarsplit/provider"
)

// Backend names.
const (
	BackendAuto   = "auto"
	BackendFFmpeg = "ffmpeg"
	BackendWAV    = "wav"
)

var backends = provider.NewRegistry[Backend]()

// RegisterBackend makes a backend factory available by name. Backend
// packages call it from init.
func RegisterBackend(name string, factory provider.Factory[Backend]) {
	backends.RegisterFactory(name, factory)
}

// NewBackend creates the backend registered under name.
func NewBackend(name string, cfg map[string]any) (Backend, error) {
	return backends.Create(name, cfg)
}

// Backends lists the registered backend names.
func Backends() []string {
	return backends.List()
}

// SelectBackend resolves a configured backend name for one input. "auto"
// picks the in-process WAV codec when both input and output are WAV and
// ffmpeg otherwise.
func SelectBackend(name, mediaPath string, profile Profile) (string, error) {
	switch name {
	case "", BackendAuto:
		if Ext(mediaPath) == ".wav" && profile.Extension == ".wav" && backends.Has(BackendWAV) {
			return BackendWAV, nil
		}
		return BackendFFmpeg, nil
	case BackendFFmpeg, BackendWAV:
		if name == BackendWAV && profile.Extension != ".wav" {
			return "", fmt.Errorf("media: backend %q cannot write %s clips", name, profile.Extension)
		}
		return name, nil
	default:
		if backends.Has(name) {
			return name, nil
		}
		return "", fmt.Errorf("media: unknown backend %q", name)
	}
}
