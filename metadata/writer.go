// SPDX-License-Identifier: EPL-2.0

package metadata

import (
	"fmt"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/output"
	"github.com/ik5/avkit/picture"
	"github.com/sirupsen/logrus"
)

// WriteTags copies the known tags of m onto oc. Unknown values are skipped,
// never written as empty strings. It must run before the header.
func WriteTags(m AudioMetadata, oc *output.Context) error {
	if err := setAll(m.Tags(), oc); err != nil {
		return fmt.Errorf("writing tags: %w", err)
	}

	return nil
}

// CopyAllTags copies every tag of src onto oc.
func CopyAllTags(src *audio.Tags, oc *output.Context) error {
	if err := setAll(src, oc); err != nil {
		return fmt.Errorf("copying tags: %w", err)
	}

	return nil
}

func setAll(t *audio.Tags, oc *output.Context) error {
	for _, k := range t.Keys() {
		if err := oc.SetTag(k, t.Value(k)); err != nil {
			return err
		}
	}
	return nil
}

func hasAttachedPicture(oc *output.Context) bool {
	for _, s := range oc.Streams() {
		if s.Disposition&audio.DispositionAttachedPic != 0 {
			return true
		}
	}
	return false
}

func hasPictureTag(oc *output.Context) bool {
	_, ok := oc.Tags.Get(audio.TagPicture)
	return ok
}

// AddCoverArtStream registers an attached picture stream for data and
// returns its index. ok is false, with no stream created, when data is empty
// or format cannot carry cover art. It must run before the header.
func AddCoverArtStream(data []byte, oc *output.Context, format output.Format) (index int, ok bool, err error) {
	if len(data) == 0 || !format.SupportsCoverArt() {
		return -1, false, nil
	}
	if hasPictureTag(oc) {
		return -1, false, ErrCoverArtPathConflict
	}

	s, err := oc.NewStream(audio.MediaVideo)
	if err != nil {
		return -1, false, fmt.Errorf("adding cover art stream: %w", err)
	}

	w, h := picture.ExtractDimensions(data)
	s.CodecID = picture.CodecID(data)
	s.CodecName = s.CodecID
	s.Params.Width = int(w)
	s.Params.Height = int(h)
	s.Disposition = audio.DispositionAttachedPic

	oc.Logger().WithFields(logrus.Fields{
		"function": "AddCoverArtStream",
		"stream":   s.Index,
		"codec":    s.CodecID,
		"width":    w,
		"height":   h,
	}).Debug("Cover art stream added")

	return s.Index, true, nil
}

// WriteCoverArtPacket writes data as one key packet of stream index. It must
// run after the header. Empty data is ignored.
func WriteCoverArtPacket(data []byte, oc *output.Context, index int) error {
	if len(data) == 0 {
		return nil
	}

	pkt := &audio.Packet{
		StreamIndex: index,
		Data:        make([]byte, len(data)),
		Flags:       audio.FlagKey,
	}
	copy(pkt.Data, data)

	if err := oc.WriteInterleavedPacket(pkt); err != nil {
		return fmt.Errorf("writing cover art: %w", err)
	}

	return nil
}

// AddCoverArtAsVorbisComment stores data as a base64 PICTURE block under
// METADATA_BLOCK_PICTURE. Empty data is ignored. It must run before the
// header.
func AddCoverArtAsVorbisComment(data []byte, oc *output.Context) error {
	encoded, ok := picture.EncodeBase64(data)
	if !ok {
		return nil
	}
	if hasAttachedPicture(oc) {
		return ErrCoverArtPathConflict
	}

	if err := oc.SetTag(audio.TagPicture, encoded); err != nil {
		return fmt.Errorf("adding cover art comment: %w", err)
	}

	oc.Logger().WithFields(logrus.Fields{
		"function": "AddCoverArtAsVorbisComment",
		"size":     len(encoded),
	}).Debug("Cover art comment added")

	return nil
}

// AddCoverArt picks the path that fits format: a comment for Ogg based
// formats, an attached picture stream otherwise. The returned index is -1
// when no stream was created.
func AddCoverArt(data []byte, oc *output.Context, format output.Format) (int, error) {
	if format.UsesOggContainer() {
		return -1, AddCoverArtAsVorbisComment(data, oc)
	}

	index, _, err := AddCoverArtStream(data, oc, format)
	return index, err
}
