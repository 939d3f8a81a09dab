// Package dataset parses line-oriented sets of unsigned integer records, the
// text format used to feed node and arc lists to graph commands. Each line
// holds decimal tokens separated by spaces, tabs or commas; a blank line or
// the end of the stream terminates a dataset.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxLineLen is the maximum accepted length of a single input line, in bytes,
// including the trailing newline.
const MaxLineLen = 4096

var (
	// ErrMalformedRecord reports a line that is not a sequence of valid
	// unsigned integers, including lines made up entirely of delimiters.
	ErrMalformedRecord = errors.New("dataset: malformed record")
	// ErrZeroNodeID reports a node ID record containing the invalid value 0.
	ErrZeroNodeID = errors.New("dataset: zero node id")
	// ErrLineTooLong reports a line longer than MaxLineLen. The reader cannot
	// resynchronise after a truncated read, so this aborts the whole dataset.
	ErrLineTooLong = errors.New("dataset: line too long")
)

// DatasetError reports the first bad line of a dataset read. The cause is
// deliberately collapsed to a line number: malformed tokens, arity mismatches
// and zero node IDs all render the same way.
type DatasetError struct {
	Line int
}

func (e *DatasetError) Error() string {
	return fmt.Sprintf("error reading data set (line %d)", e.Line)
}

func isDelimiter(r rune) bool {
	return r == ' ' || r == '\t' || r == ',' || r == '\n'
}

// Split splits a line into tokens on spaces, tabs, commas and newlines.
// Leading, trailing and repeated delimiters produce no empty tokens.
func Split(line string) []string {
	return strings.FieldsFunc(line, isDelimiter)
}

// IsValidUint reports whether s is a non-empty string of ASCII decimal digits.
func IsValidUint(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsValidNodeID reports whether s is a valid unsigned integer other than 0.
func IsValidNodeID(s string) bool {
	if !IsValidUint(s) {
		return false
	}
	v, err := ParseUint(s)
	return err == nil && v != 0
}

// ParseUint converts a token to a uint32. Callers are expected to have
// checked IsValidUint first; ParseUint itself only fails on range overflow.
func ParseUint(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("dataset: parse %q: %w", s, err)
	}
	return uint32(v), nil
}

// Reader reads unsigned integer records from a line-oriented stream. It
// borrows the stream and never closes it.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, MaxLineLen)}
}

// readLine reads one raw line including its newline. A clean end of stream
// before any byte is reported as io.EOF; a final line without a trailing
// newline is still a line.
func (r *Reader) readLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if len(line) > MaxLineLen {
		return "", ErrLineTooLong
	}
	if err == nil {
		return line, nil
	}
	if errors.Is(err, io.EOF) {
		if len(line) == 0 {
			return "", io.EOF
		}
		return line, nil
	}
	return "", fmt.Errorf("dataset: read: %w", err)
}

// ReadLine reads one line and strips its trailing newline. It returns io.EOF
// at a clean end of stream. Command interpreters share one Reader between
// command lines and inline datasets so buffered input is not lost.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// ReadRecord reads one line and decodes it as a record of unsigned integers.
//
// A zero-length record with a nil error signals the end of the data: either a
// truly empty line, or a clean end of stream. A line consisting only of
// delimiters is malformed, not empty. On failure no partial record is
// returned.
func (r *Reader) ReadRecord() ([]uint32, error) {
	line, err := r.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	line = strings.TrimSuffix(line, "\n")
	tokens := Split(line)
	if len(line) > 0 && len(tokens) == 0 {
		return nil, fmt.Errorf("%w: line contains only delimiters", ErrMalformedRecord)
	}
	record := make([]uint32, 0, len(tokens))
	for _, token := range tokens {
		if !IsValidUint(token) {
			return nil, fmt.Errorf("%w: token %q", ErrMalformedRecord, token)
		}
		v, err := ParseUint(token)
		if err != nil {
			return nil, fmt.Errorf("%w: token %q out of range", ErrMalformedRecord, token)
		}
		record = append(record, v)
	}
	return record, nil
}

// ReadNodeIDRecord reads a record like ReadRecord and additionally rejects
// records containing the value 0, which is not a valid node ID.
func (r *Reader) ReadNodeIDRecord() ([]uint32, error) {
	record, err := r.ReadRecord()
	if err != nil {
		return nil, err
	}
	for _, v := range record {
		if v == 0 {
			return nil, ErrZeroNodeID
		}
	}
	return record, nil
}

// ReadDataset reads node ID records until the terminating blank line or end
// of stream and returns them in encounter order. Every record must have
// exactly expectedArity values.
//
// Lines are numbered from 1. The first malformed, zero-ID or wrong-arity line
// makes the whole read fail with a *DatasetError naming that line; scanning
// continues to the terminator so the stream is left at a known position, but
// no further records are collected and no partial dataset is returned.
func (r *Reader) ReadDataset(expectedArity int) ([][]uint32, error) {
	if expectedArity < 1 {
		return nil, fmt.Errorf("dataset: expected arity must be at least 1, got %d", expectedArity)
	}
	var (
		records [][]uint32
		dsErr   *DatasetError
	)
	for lineno := 1; ; lineno++ {
		record, err := r.ReadNodeIDRecord()
		if err != nil {
			if errors.Is(err, ErrMalformedRecord) || errors.Is(err, ErrZeroNodeID) {
				if dsErr == nil {
					dsErr = &DatasetError{Line: lineno}
				}
				continue
			}
			// Over-long lines and stream failures cannot be scanned past.
			return nil, err
		}
		if len(record) == 0 {
			break
		}
		if len(record) != expectedArity {
			if dsErr == nil {
				dsErr = &DatasetError{Line: lineno}
			}
			continue
		}
		if dsErr == nil {
			records = append(records, record)
		}
	}
	if dsErr != nil {
		return nil, dsErr
	}
	return records, nil
}
