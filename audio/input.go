// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const probeSize = 4096

// IsPipe reports whether path names standard input.
func IsPipe(path string) bool { return path == "-" || path == "pipe:0" }

// OpenInput opens path ("-" or "pipe:0" for stdin) and returns a demuxer for
// it. formatHint selects the input format by name or extension; when empty
// the header is probed and the file extension is used as a fallback.
func (r *Registry) OpenInput(ctx context.Context, path, formatHint string) (Demuxer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	var f *os.File
	if IsPipe(path) {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}

	hint := formatHint
	if hint == "" && !IsPipe(path) {
		hint = filepath.Ext(path)
	}

	d, err := r.openReader(f, formatHint, hint)
	if err != nil {
		if f != os.Stdin {
			_ = f.Close()
		}
		return nil, err
	}
	if f == os.Stdin {
		return d, nil
	}

	return &closingDemuxer{Demuxer: d, c: f}, nil
}

// OpenReader returns a demuxer reading from rd. If rd is an io.ReadSeeker it
// is handed to the format unchanged after probing.
func (r *Registry) OpenReader(ctx context.Context, rd io.Reader, formatHint string) (Demuxer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return r.openReader(rd, formatHint, "")
}

func (r *Registry) openReader(rd io.Reader, hint, extHint string) (Demuxer, error) {
	var (
		in  InputFormat
		ok  bool
		err error
	)
	if hint != "" {
		in, ok = r.Input(hint)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, hint)
		}
	}

	header, rd, err := peekHeader(rd)
	if err != nil {
		return nil, err
	}

	if in == nil {
		in, ok = r.Probe(header)
		if !ok && extHint != "" {
			in, ok = r.Input(extHint)
		}
		if !ok {
			return nil, ErrNoProbeMatch
		}
	}

	d, err := in.Open(rd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Name(), err)
	}

	return d, nil
}

// peekHeader returns the first bytes of rd and a reader positioned at the
// start of the stream.
func peekHeader(rd io.Reader) ([]byte, io.Reader, error) {
	if rs, ok := rd.(io.ReadSeeker); ok {
		if pos, err := rs.Seek(0, io.SeekCurrent); err == nil {
			header := make([]byte, probeSize)
			n, err := io.ReadFull(rs, header)
			if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
				return nil, nil, fmt.Errorf("%w", err)
			}
			if _, err := rs.Seek(pos, io.SeekStart); err != nil {
				return nil, nil, fmt.Errorf("%w", err)
			}
			return header[:n], rs, nil
		}
	}

	br := bufio.NewReaderSize(rd, probeSize)
	header, err := br.Peek(probeSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, nil, fmt.Errorf("%w", err)
	}

	return header, br, nil
}

type closingDemuxer struct {
	Demuxer
	c io.Closer
}

func (d *closingDemuxer) Close() error {
	err := d.Demuxer.Close()
	if cerr := d.c.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w", cerr)
	}
	return err
}
