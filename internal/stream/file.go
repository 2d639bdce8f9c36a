package stream

import (
	"fmt"
	"os"
)

// File is an uncompressed on-disk stream. Reads are served from a read-only
// mapping of the whole file; writes go straight to the file.
type File struct {
	cursor
	f     *os.File
	size  int64
	unmap func() error
}

func (s *File) Open(path string, mode Mode) error {
	if s.open {
		return ErrAlreadyOpen
	}
	s.mode, s.pos = mode, 0
	if mode == ModeRead {
		data, unmap, err := mapFile(path)
		if err != nil {
			return fmt.Errorf("stream: %w", err)
		}
		s.buf, s.unmap = data, unmap
	} else {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("stream: %w", err)
		}
		s.f, s.size = f, 0
	}
	s.open = true
	return nil
}

func (s *File) Write(p []byte) (int, error) {
	if s.f == nil {
		return s.cursor.Write(p)
	}
	n, err := s.f.Write(p)
	s.pos += int64(n)
	s.size = max(s.size, s.pos)
	return n, err
}

func (s *File) Seek(off int64, whence int) (int64, error) {
	if s.f == nil {
		return s.cursor.Seek(off, whence)
	}
	if _, err := seekTo(s.pos, s.size, off, whence); err != nil {
		return s.pos, err
	}
	pos, err := s.f.Seek(off, whence)
	if err != nil {
		return s.pos, fmt.Errorf("stream: %w", err)
	}
	s.pos = pos
	return pos, nil
}

func (s *File) EOF() bool {
	if s.f != nil {
		return s.pos >= s.size
	}
	return s.cursor.EOF()
}

func (s *File) Size() int64 {
	if s.f != nil {
		return s.size
	}
	return s.cursor.Size()
}

func (s *File) Close() error {
	if !s.open {
		return nil
	}
	s.open = false
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		return err
	}
	s.buf = nil
	if s.unmap != nil {
		return s.unmap()
	}
	return nil
}
