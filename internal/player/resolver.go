package player

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytm/internal/shared"
	"github.com/kkdai/youtube/v2"
)

// watchURL is the public page for a video id, used whenever in-process
// stream resolution is disabled or fails. The player's own loader takes it
// from there.
func watchURL(videoID string) string {
	return "https://music.youtube.com/watch?v=" + videoID
}

// Resolver picks the stream target handed to the player for a video id.
type Resolver struct {
	direct bool
	client youtube.Client
	logger *log.Logger
}

// NewResolver creates a resolver. With direct false, Resolve only builds
// watch URLs and never touches the network.
func NewResolver(direct bool, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Resolver{direct: direct, logger: logger}
}

// Resolve returns the stream target for a video id.
//
// Direct resolution picks the audio-only format with the highest bitrate.
// Every failure falls back to the watch URL with a warning, so playback
// still works when extraction breaks.
func (r *Resolver) Resolve(ctx context.Context, videoID string) string {
	if !r.direct {
		return watchURL(videoID)
	}

	video, err := r.client.GetVideoContext(ctx, videoID)
	if err != nil {
		r.logger.Warn("stream resolution failed, using watch URL", "videoId", videoID, "error", err)
		return watchURL(videoID)
	}

	format := bestAudioFormat(video.Formats)
	if format == nil {
		r.logger.Warn("no audio format found, using watch URL", "videoId", videoID)
		return watchURL(videoID)
	}

	streamURL, err := r.client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		r.logger.Warn("stream URL fetch failed, using watch URL", "videoId", videoID, "error", err)
		return watchURL(videoID)
	}

	r.logger.Debug("resolved direct stream", "videoId", videoID, "itag", format.ItagNo, "bitrate", format.Bitrate)

	return streamURL
}

// bestAudioFormat picks the audio-only format with the highest bitrate.
func bestAudioFormat(formats youtube.FormatList) *youtube.Format {
	audio := formats.Type("audio")
	if len(audio) == 0 {
		return nil
	}

	best := &audio[0]
	for i := range audio {
		if audio[i].Bitrate > best.Bitrate {
			best = &audio[i]
		}
	}

	return best
}
