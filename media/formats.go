package media

import (
	"path/filepath"
	"slices"
	"strings"
)

var (
	audioExtensions = []string{".mp3", ".wav", ".m4a", ".flac"}
	videoExtensions = []string{".mp4", ".mov", ".mkv", ".avi", ".webm"}
)

// Ext returns the lower-cased extension of name.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// IsAudioFile reports whether name has a supported audio extension.
func IsAudioFile(name string) bool {
	return slices.Contains(audioExtensions, Ext(name))
}

// IsVideoFile reports whether name has a supported video extension.
func IsVideoFile(name string) bool {
	return slices.Contains(videoExtensions, Ext(name))
}

// IsMediaFile reports whether name is a supported audio or video file.
func IsMediaFile(name string) bool {
	return IsAudioFile(name) || IsVideoFile(name)
}

// Extensions returns every accepted media extension.
func Extensions() []string {
	return slices.Concat(audioExtensions, videoExtensions)
}
