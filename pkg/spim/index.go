package spim

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"spiminfo/internal/models"
)

// The index file lists the recorded timepoints together with the stack
// dimensions, e.g.
//
//	0	259422997515086	1, 40, 30, 20	0
//	1	259422997515086	1, 40, 30, 20	0
//
// Splitting on the first three commas gives width, height and depth in fields
// 1 to 3. Everything after the digits of the depth field is ignored.

// IndexRecord is the stack shape read from a single index line.
type IndexRecord struct {
	Width  int
	Height int
	Depth  int
}

// parseIndexLine extracts width, height and depth from one index line.
// Errors wrap ErrMalformedLine.
func parseIndexLine(line string) (IndexRecord, error) {
	tokens := strings.SplitN(line, ",", 4)
	if len(tokens) < 4 {
		return IndexRecord{}, fmt.Errorf("%w: want 4 comma separated fields, got %d", ErrMalformedLine, len(tokens))
	}

	width, err := strconv.Atoi(strings.TrimSpace(tokens[1]))
	if err != nil {
		return IndexRecord{}, fmt.Errorf("%w: width: %v", ErrMalformedLine, err)
	}

	height, err := strconv.Atoi(strings.TrimSpace(tokens[2]))
	if err != nil {
		return IndexRecord{}, fmt.Errorf("%w: height: %v", ErrMalformedLine, err)
	}

	depth, err := strconv.Atoi(leadingDigits(strings.TrimSpace(tokens[3])))
	if err != nil {
		return IndexRecord{}, fmt.Errorf("%w: depth: %v", ErrMalformedLine, err)
	}

	if width < 0 || height < 0 {
		return IndexRecord{}, fmt.Errorf("%w: negative size %dx%d", ErrMalformedLine, width, height)
	}

	return IndexRecord{Width: width, Height: height, Depth: depth}, nil
}

// maxLoggedLine bounds how much of a skipped line ends up in the log.
const maxLoggedLine = 256

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// leadingDigits returns the run of ASCII digits s starts with.
func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// ParseIndex reads the stack dimensions from an index file. Lines that cannot
// be parsed are logged and skipped. Every parsed line counts as one timepoint
// and the width, height and depth of the last parsed line win.
//
// Unlike older tooling, a line with a negative width or height is malformed
// and does not count as a timepoint.
//
// The only error is an index file that cannot be opened or read.
func ParseIndex(path string, logger *zap.Logger) (models.StackDimensions, error) {
	return parseIndex(path, logger, false)
}

// ParseIndexStrict is like ParseIndex but fails with an InconsistentIndexError
// when the parsed lines do not all describe the same stack shape.
func ParseIndexStrict(path string, logger *zap.Logger) (models.StackDimensions, error) {
	return parseIndex(path, logger, true)
}

func parseIndex(path string, logger *zap.Logger, strict bool) (models.StackDimensions, error) {
	logger = orNop(logger)

	file, err := os.Open(path)
	if err != nil {
		return models.StackDimensions{}, &IndexUnreadableError{Path: path, Err: err}
	}
	defer file.Close()

	var (
		dims  models.StackDimensions
		first *IndexRecord
	)

	lines := newLineReader(file)

	lineNo := 0
	for {
		line, err := lines.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.StackDimensions{}, &IndexUnreadableError{Path: path, Err: err}
		}
		lineNo++

		rec, err := parseIndexLine(line)
		if err != nil {
			logger.Warn("Skipping index line",
				zap.String("file", path),
				zap.Int("line", lineNo),
				zap.String("text", clip(line, maxLoggedLine)),
				zap.Error(err))
			continue
		}

		if strict {
			if first == nil {
				first = &rec
			} else if rec != *first {
				return models.StackDimensions{}, &InconsistentIndexError{
					Line: lineNo,
					Want: models.StackDimensions{Width: first.Width, Height: first.Height, Depth: first.Depth},
					Got:  models.StackDimensions{Width: rec.Width, Height: rec.Height, Depth: rec.Depth},
				}
			}
		}

		dims.Width = rec.Width
		dims.Height = rec.Height
		dims.Depth = rec.Depth
		dims.Timepoints++
	}

	logger.Debug("Parsed index file",
		zap.String("file", path),
		zap.Int("width", dims.Width),
		zap.Int("height", dims.Height),
		zap.Int("depth", dims.Depth),
		zap.Int("timepoints", dims.Timepoints))

	return dims, nil
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
