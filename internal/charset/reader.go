package charset

import (
	"errors"
	"fmt"
	"io"
)

// ErrTooLarge is returned by ReadAll when the input exceeds its limit.
var ErrTooLarge = errors.New("file too large")

// limitReader counts bytes read and fails once more than max have been seen.
type limitReader struct {
	reader io.Reader
	n      int64
	max    int64
}

func (r *limitReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.n += int64(n)
	if r.max > 0 && r.n > r.max {
		return n, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, r.max)
	}
	return n, err
}

// ReadAll reads r to the end. A positive max bounds the number of bytes
// accepted.
func ReadAll(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(&limitReader{reader: r, max: max})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ReadText reads r with [ReadAll] and decodes it with [Decode].
func ReadText(r io.Reader, max int64) (text, encoding string, err error) {
	data, err := ReadAll(r, max)
	if err != nil {
		return "", "", err
	}
	return Decode(data)
}
