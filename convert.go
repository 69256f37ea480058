// SPDX-License-Identifier: EPL-2.0

package avkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/engine"
	"github.com/ik5/avkit/metadata"
	"github.com/ik5/avkit/output"
	"github.com/sirupsen/logrus"
)

// ConvertOptions controls Convert. Zero values keep the source properties.
type ConvertOptions struct {
	// Format is the output format name such as "flac". Empty picks it from
	// the extension of the destination.
	Format string
	// FormatHint names the input format of pipes.
	FormatHint string

	SampleRate int
	Channels   int
	// Bits is 16, 24 or 32. It defaults to 16, or 32 when Float is set.
	Bits  int
	Float bool

	// Changes are applied over the tags copied from the source.
	Changes metadata.Changes
	// Cover replaces the source cover art when set.
	Cover []byte
	// NoCover drops the source cover art.
	NoCover bool

	Logger logrus.FieldLogger
}

// ConvertResult describes the written file.
type ConvertResult struct {
	Format   output.Format
	Audio    audio.Format
	Bits     int
	Frames   int64
	Duration time.Duration
	Tags     *audio.Tags
	// CoverArt reports whether a picture was embedded.
	CoverArt bool
}

// Convert decodes src and writes it to dst with the layout, tags and cover
// art asked for. src may be "-" for stdin. A failed conversion removes dst.
func Convert(ctx context.Context, src, dst string, opts ConvertOptions) (res ConvertResult, err error) {
	l := opts.Logger
	if l == nil {
		nl := logrus.New()
		nl.SetOutput(io.Discard)
		l = nl
	}

	format, err := outputFormat(dst, opts.Format)
	if err != nil {
		return res, err
	}
	res.Format = format

	e := engine.New(engine.WithLogger(l), engine.WithRegistry(Inputs()))
	if err := e.OpenInput(ctx, src, opts.FormatHint); err != nil {
		return res, err
	}
	defer e.Close()

	res.Audio = audio.Format{
		SampleRate:   orDefault(opts.SampleRate, e.SampleRate()),
		Channels:     orDefault(opts.Channels, e.Channels()),
		SampleFormat: audio.Float32,
	}
	if err := e.Reconfigure(res.Audio); err != nil {
		return res, err
	}
	res.Bits = opts.Bits
	if res.Bits == 0 {
		res.Bits = 16
		if opts.Float {
			res.Bits = 32
		}
	}

	cover := opts.Cover
	if cover == nil && !opts.NoCover && !audio.IsPipe(src) {
		cover = sourceCover(src, l)
	}

	f, err := os.Create(dst)
	if err != nil {
		return res, fmt.Errorf("%w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w", cerr)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	oc, err := Muxers().Create(format, f, output.WithLogger(l))
	if err != nil {
		return res, err
	}
	stream, err := oc.NewAudioStream(res.Audio.SampleRate, res.Audio.Channels, res.Bits, opts.Float)
	if err != nil {
		return res, err
	}

	tags := e.Tags().Clone()
	tags.Delete(audio.TagEncoder)
	if err := metadata.CopyAllTags(tags, oc); err != nil {
		return res, err
	}
	if err := metadata.ApplyChanges(opts.Changes, oc); err != nil {
		return res, err
	}
	coverIndex, err := metadata.AddCoverArt(cover, oc, format)
	if err != nil {
		return res, err
	}

	if err := oc.WriteHeader(); err != nil {
		return res, err
	}
	if coverIndex >= 0 {
		if err := metadata.WriteCoverArtPacket(cover, oc, coverIndex); err != nil {
			return res, err
		}
	}
	res.CoverArt = coverIndex >= 0 || oc.Tags.Value(audio.TagPicture) != ""

	for {
		err := e.DecodeNext(ctx, func(buf audio.PCMBuffer) error {
			if err := oc.WriteAudio(stream.Index, buf, res.Frames); err != nil {
				return err
			}
			res.Frames += int64(buf.Frames)
			return nil
		})
		if errors.Is(err, engine.ErrEndOfFile) {
			break
		}
		if err != nil {
			return res, err
		}
	}

	if err := oc.WriteTrailer(); err != nil {
		return res, err
	}

	res.Duration = time.Duration(res.Frames) * time.Second / time.Duration(res.Audio.SampleRate)
	res.Tags = oc.Tags

	l.WithFields(logrus.Fields{
		"function": "Convert",
		"src":      src,
		"dst":      dst,
		"format":   format.String(),
		"frames":   res.Frames,
		"cover":    res.CoverArt,
	}).Debug("Conversion done")

	return res, nil
}

func outputFormat(dst, name string) (output.Format, error) {
	if name != "" {
		f, ok := output.ParseFormat(name)
		if !ok {
			return 0, fmt.Errorf("%w: %q", output.ErrNoMuxer, name)
		}
		return f, nil
	}

	f, ok := output.FormatForExtension(filepath.Ext(dst))
	if !ok {
		return 0, fmt.Errorf("%w: extension of %q", output.ErrNoMuxer, dst)
	}
	return f, nil
}

// sourceCover reads the embedded picture with dhowden/tag. Inputs it
// cannot parse have no cover.
func sourceCover(path string, l logrus.FieldLogger) []byte {
	md, err := metadata.ReadFile(path)
	if err != nil {
		if !errors.Is(err, metadata.ErrNoTags) {
			l.WithFields(logrus.Fields{
				"function": "sourceCover",
				"path":     path,
				"error":    err,
			}).Debug("Reading source tags failed")
		}
		return nil
	}
	return md.CoverArt
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
