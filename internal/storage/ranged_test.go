package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	const size = 1000

	tests := []struct {
		name    string
		header  string
		want    ByteRange
		wantErr error
	}{
		{"closed", "bytes=0-99", ByteRange{0, 99}, nil},
		{"open ended", "bytes=500-", ByteRange{500, 999}, nil},
		{"suffix", "bytes=-100", ByteRange{900, 999}, nil},
		{"suffix larger than file", "bytes=-5000", ByteRange{0, 999}, nil},
		{"end clamped", "bytes=900-5000", ByteRange{900, 999}, nil},
		{"single byte", "bytes=999-999", ByteRange{999, 999}, nil},
		{"spaces", " bytes= 10 - 20 ", ByteRange{10, 20}, nil},
		{"start past end", "bytes=1000-", ByteRange{}, ErrUnsatisfiableRange},
		{"zero suffix", "bytes=-0", ByteRange{}, ErrUnsatisfiableRange},
		{"wrong unit", "items=0-1", ByteRange{}, ErrInvalidRange},
		{"reversed", "bytes=20-10", ByteRange{}, ErrInvalidRange},
		{"multi range", "bytes=0-1,5-6", ByteRange{}, ErrInvalidRange},
		{"garbage", "bytes=abc", ByteRange{}, ErrInvalidRange},
		{"empty", "", ByteRange{}, ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRange(tt.header, size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRange_EmptyObject(t *testing.T) {
	_, err := ParseRange("bytes=0-", 0)
	assert.ErrorIs(t, err, ErrUnsatisfiableRange)
}

func TestByteRange_Headers(t *testing.T) {
	r := ByteRange{Start: 10, End: 19}
	assert.Equal(t, int64(10), r.Length())
	assert.Equal(t, "bytes 10-19/100", r.ContentRange(100))
}
