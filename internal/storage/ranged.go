package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidRange means the Range header is malformed; callers ignore it.
	ErrInvalidRange = errors.New("invalid range header")
	// ErrUnsatisfiableRange maps to 416 Range Not Satisfiable.
	ErrUnsatisfiableRange = errors.New("range not satisfiable")
)

// ByteRange is an inclusive [Start, End] window of an object.
type ByteRange struct {
	Start int64
	End   int64
}

func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange renders the Content-Range header value for an object of size bytes.
func (r ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// ParseRange resolves a single-range "bytes=" header against an object of
// size bytes. Supported forms: "a-b", "a-" and the suffix form "-n".
// Multi-range requests are reported as ErrInvalidRange.
func ParseRange(header string, size int64) (ByteRange, error) {
	spec, ok := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !ok || spec == "" || strings.Contains(spec, ",") {
		return ByteRange{}, ErrInvalidRange
	}

	first, last, ok := strings.Cut(strings.TrimSpace(spec), "-")
	if !ok {
		return ByteRange{}, ErrInvalidRange
	}
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)

	if first == "" {
		n, err := strconv.ParseInt(last, 10, 64)
		if err != nil || n < 0 {
			return ByteRange{}, ErrInvalidRange
		}
		if n == 0 || size == 0 {
			return ByteRange{}, ErrUnsatisfiableRange
		}
		if n > size {
			n = size
		}
		return ByteRange{Start: size - n, End: size - 1}, nil
	}

	start, err := strconv.ParseInt(first, 10, 64)
	if err != nil || start < 0 {
		return ByteRange{}, ErrInvalidRange
	}

	end := size - 1
	if last != "" {
		end, err = strconv.ParseInt(last, 10, 64)
		if err != nil || end < start {
			return ByteRange{}, ErrInvalidRange
		}
		if end >= size {
			end = size - 1
		}
	}

	if start >= size {
		return ByteRange{}, ErrUnsatisfiableRange
	}
	return ByteRange{Start: start, End: end}, nil
}
