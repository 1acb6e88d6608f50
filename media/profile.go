package media

import (
	"fmt"
	"slices"
	"sort"
)

// Profile selects the output container and codecs for written clips.
type Profile struct {
	// Name is the lookup key, e.g. "audio".
	Name string
	// Extension is the output file extension including the dot.
	Extension string
	// Args are the encoder arguments passed to ffmpeg after the input.
	Args []string
	// Video is true when the profile keeps a video stream.
	Video bool
}

// Built-in profiles.
var (
	ProfileAudio = Profile{
		Name:      "audio",
		Extension: ".wav",
		Args:      []string{"-vn", "-c:a", "pcm_s16le"},
	}
	ProfileMP3 = Profile{
		Name:      "mp3",
		Extension: ".mp3",
		Args:      []string{"-vn", "-c:a", "libmp3lame", "-q:a", "2"},
	}
	ProfileVideo = Profile{
		Name:      "video",
		Extension: ".mp4",
		Args:      []string{"-c:v", "libx264", "-preset", "veryfast", "-c:a", "aac", "-movflags", "+faststart"},
		Video:     true,
	}
)

var profiles = map[string]Profile{
	ProfileAudio.Name: ProfileAudio,
	ProfileMP3.Name:   ProfileMP3,
	ProfileVideo.Name: ProfileVideo,
}

// LookupProfile returns the built-in profile called name.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("media: unknown profile %q (want one of %v)", name, ProfileNames())
	}
	p.Args = slices.Clone(p.Args)
	return p, nil
}

// ProfileNames returns the built-in profile names, sorted.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
