// Package media wraps ffmpeg and ffprobe for the three operations the
// pipeline needs: probing source duration, re-encoding a source into a
// compact mono AAC file, and extracting time-bounded segments.
//
// All invocations run through the process package, so canceled contexts
// terminate the encoder process group cleanly.
package media
