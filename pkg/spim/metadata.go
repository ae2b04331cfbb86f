package spim

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"spiminfo/internal/models"
)

// The metadata file is written by the microscope and holds one tab separated
// setting per line, e.g.
//
//	timelapse.NumberOfPlanes	=	100.000	4636737291354636288
//	timelapse.StartZ	=	25.0000	4627730092099895296
//	timelapse.StopZ	=	75.0000	4634978072750194688
//
// The value is the third column.

// Keys looked up in the metadata file. They match anywhere in a line.
const (
	KeyStartZ         = "timelapse.StartZ"
	KeyStopZ          = "timelapse.StopZ"
	KeyNumberOfPlanes = "timelapse.NumberOfPlanes"
)

// LateralPixelSize is the x and y pixel size in microns of the detection
// optics the datasets are recorded with.
const LateralPixelSize = 0.162

// DefaultPixelSize is used when the metadata file is missing or unusable.
var DefaultPixelSize = models.PixelSize{X: LateralPixelSize, Y: LateralPixelSize, Z: 0.5}

// metadataValue parses the value column of a metadata line.
func metadataValue(line string) (float64, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 3 {
		return 0, fmt.Errorf("want 3 tab separated fields, got %d", len(fields))
	}
	return strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
}

// truncateInt32 converts a plane count to an integer the way the acquisition
// software does: toward zero, saturating at the int32 limits, NaN as 0.
func truncateInt32(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}

// ParseMetadata reads the pixel size from a metadata file. x and y are fixed
// to LateralPixelSize; z is the plane spacing
//
//	(StopZ - StartZ) / (NumberOfPlanes - 1)
//
// A missing file gives DefaultPixelSize. So does any value that fails to parse,
// in which case everything read from the file so far is dropped. Keys that
// never appear keep the value -1.
func ParseMetadata(path string, logger *zap.Logger) models.PixelSize {
	logger = orNop(logger)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Info("Metadata file doesn't exist, using default pixel size",
			zap.String("file", path))
		return DefaultPixelSize
	}

	size, err := parseMetadata(path, logger)
	if err != nil {
		logger.Warn("Couldn't parse metadata file, using default pixel size",
			zap.String("file", path),
			zap.Error(err))
		return DefaultPixelSize
	}
	return size
}

func parseMetadata(path string, logger *zap.Logger) (models.PixelSize, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.PixelSize{}, err
	}
	defer file.Close()

	startZ, stopZ := -1.0, -1.0
	numberOfPlanes := -1

	lines := newLineReader(file)

	lineNo := 0
	for {
		line, err := lines.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.PixelSize{}, err
		}
		lineNo++

		if strings.Contains(line, KeyStartZ) {
			v, err := metadataValue(line)
			if err != nil {
				return models.PixelSize{}, fmt.Errorf("line %d: %s: %w", lineNo, KeyStartZ, err)
			}
			startZ = v
			logger.Debug("Metadata value", zap.String("key", KeyStartZ), zap.Float64("value", v))
		}
		if strings.Contains(line, KeyStopZ) {
			v, err := metadataValue(line)
			if err != nil {
				return models.PixelSize{}, fmt.Errorf("line %d: %s: %w", lineNo, KeyStopZ, err)
			}
			stopZ = v
			logger.Debug("Metadata value", zap.String("key", KeyStopZ), zap.Float64("value", v))
		}
		if strings.Contains(line, KeyNumberOfPlanes) {
			v, err := metadataValue(line)
			if err != nil {
				return models.PixelSize{}, fmt.Errorf("line %d: %s: %w", lineNo, KeyNumberOfPlanes, err)
			}
			numberOfPlanes = truncateInt32(v)
			logger.Debug("Metadata value", zap.String("key", KeyNumberOfPlanes), zap.Int("value", numberOfPlanes))
		}
	}

	return models.PixelSize{
		X: LateralPixelSize,
		Y: LateralPixelSize,
		Z: (stopZ - startZ) / float64(numberOfPlanes-1),
	}, nil
}
