// Package media drives the yt-dlp binary to resolve search queries to
// audio and transcode them to MP3.
//
// YTDLP implements download.Fetcher. Searches use yt-dlp's "ytsearchN:"
// prefix and return lightweight metadata for interactive selection.
//
// yt-dlp and ffmpeg must be installed and reachable on PATH, or the binary
// path configured explicitly.
package media
