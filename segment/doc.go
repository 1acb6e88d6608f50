// Package segment cuts a media source into per-speaker clips.
//
// Run walks a validated diarization table in order. Every row whose end lies
// within the source duration is sliced and written to
//
//	<root>/<speaker>/segment_<start>_<end><ext>
//
// with times formatted to two decimals. The first row ending past the
// source duration stops the run; later rows are not examined. Any slice or
// write failure aborts the run with a PROCESSING_FAILED error.
package segment
