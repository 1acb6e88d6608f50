// Package media defines the source, clip and backend abstractions used to
// cut time ranges out of audio and video files.
//
// A Backend opens a file as a Source. A Source reports its duration and
// hands out Clips for [start, end) ranges; a Clip encodes itself to a path
// using the Profile the source was opened with. Two backends ship with
// diarsplit and register themselves on import:
//
//   - media/ffmpeg: any container ffmpeg understands, via ffprobe and ffmpeg
//   - media/wav: PCM WAV decoded and encoded in process
package media
