package spim

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sampleMetadata = "timelapse.NumberOfPlanes\t=\t100.000\t4636737291354636288\n" +
	"timelapse.NumberOfTimePoints\t=\t10.0000\t4632233691727265792\n" +
	"timelapse.StartZ\t=\t25.0000\t4627730092099895296\n" +
	"timelapse.StopZ\t=\t75.0000\t4634978072750194688\n"

func TestParseMetadataMissingFile(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	size := ParseMetadata(filepath.Join(t.TempDir(), MetaName), zap.New(core))

	assert.Equal(t, DefaultPixelSize, size)
	assert.Equal(t, 0.162, size.X)
	assert.Equal(t, 0.162, size.Y)
	assert.Equal(t, 0.5, size.Z)
	assert.Equal(t, 1, logs.FilterMessage("Metadata file doesn't exist, using default pixel size").Len())
}

func TestParseMetadata(t *testing.T) {
	path := writeFile(t, MetaName, "camera.Exposure\t=\t20.0000\t0\n"+sampleMetadata)

	size := ParseMetadata(path, nil)

	assert.Equal(t, LateralPixelSize, size.X)
	assert.Equal(t, LateralPixelSize, size.Y)
	assert.InDelta(t, (75.0-25.0)/(100.0-1.0), size.Z, 1e-12)
	assert.InDelta(t, 0.50505050, size.Z, 1e-6)
}

func TestParseMetadataSubstringMatch(t *testing.T) {
	content := "# acq timelapse.StartZ\t=\t10\n" +
		"prefix-timelapse.StopZ-suffix\t=\t30\n" +
		"timelapse.NumberOfPlanes\t=\t 11.9 \n"
	path := writeFile(t, MetaName, content)

	size := ParseMetadata(path, nil)

	// 11.9 planes truncate to 11
	assert.InDelta(t, 2.0, size.Z, 1e-12)
}

func TestParseMetadataLastValueWins(t *testing.T) {
	content := sampleMetadata + "timelapse.StopZ\t=\t125.0\n"
	path := writeFile(t, MetaName, content)

	size := ParseMetadata(path, nil)

	assert.InDelta(t, 100.0/99.0, size.Z, 1e-12)
}

func TestParseMetadataHugeLine(t *testing.T) {
	content := "timelapse.StartZ\t=\t25.0\n" +
		"# " + strings.Repeat("x", 2<<20) + "\n" +
		"timelapse.StopZ\t=\t75.0\r\n" +
		"timelapse.NumberOfPlanes\t=\t100.0"
	path := writeFile(t, MetaName, content)

	size := ParseMetadata(path, nil)

	assert.InDelta(t, 50.0/99.0, size.Z, 1e-12)
}

func TestParseMetadataNonFinitePlaneCount(t *testing.T) {
	tests := []struct {
		name   string
		planes string
		wantZ  float64
	}{
		// NaN truncates to 0 planes
		{"NaN", "NaN", -50},
		{"infinity saturates", "Infinity", 50.0 / (math.MaxInt32 - 1)},
		{"too large saturates", "1e12", 50.0 / (math.MaxInt32 - 1)},
		{"negative infinity saturates", "-Inf", 50.0 / (math.MinInt32 - 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "timelapse.StartZ\t=\t25.0\n" +
				"timelapse.StopZ\t=\t75.0\n" +
				"timelapse.NumberOfPlanes\t=\t" + tt.planes + "\n"
			path := writeFile(t, MetaName, content)

			size := ParseMetadata(path, nil)

			assert.InDelta(t, tt.wantZ, size.Z, 1e-15)
		})
	}
}

func TestParseMetadataBadValueFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "non numeric plane count after z range",
			content: "timelapse.StartZ\t=\t25.0\n" +
				"timelapse.StopZ\t=\t75.0\n" +
				"timelapse.NumberOfPlanes\t=\tmany\n",
		},
		{
			name:    "non numeric start",
			content: "timelapse.StartZ\t=\t25,0\n" + sampleMetadata,
		},
		{
			name:    "value column missing",
			content: sampleMetadata + "timelapse.StopZ\t=\n",
		},
		{
			name:    "space separated",
			content: "timelapse.StartZ = 25.0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			path := writeFile(t, MetaName, tt.content)

			size := ParseMetadata(path, zap.New(core))

			assert.Equal(t, DefaultPixelSize, size)
			assert.Equal(t, 1, logs.FilterMessage("Couldn't parse metadata file, using default pixel size").Len())
		})
	}
}

func TestParseMetadataWithoutKeys(t *testing.T) {
	path := writeFile(t, MetaName, "camera.Exposure\t=\t20.0000\n")

	size := ParseMetadata(path, nil)

	// All keys stay at -1: (-1 - -1) / (-1 - 1)
	assert.Equal(t, LateralPixelSize, size.X)
	assert.Zero(t, size.Z)
}

func TestParseMetadataUnreadable(t *testing.T) {
	// A directory in place of the file exists but can't be scanned
	size := ParseMetadata(t.TempDir(), nil)
	assert.Equal(t, DefaultPixelSize, size)
}

func TestParseMetadataEmpty(t *testing.T) {
	path := writeFile(t, MetaName, strings.Repeat("\n", 3))

	size := ParseMetadata(path, nil)
	assert.Zero(t, size.Z)
}
