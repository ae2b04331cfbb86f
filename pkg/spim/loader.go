package spim

import (
	"go.uber.org/zap"

	"spiminfo/internal/models"
)

// Loader loads dataset directories. The zero value is ready to use and logs
// nothing.
type Loader struct {
	// Logger receives skipped lines and fallbacks. Nil disables logging.
	Logger *zap.Logger

	// Strict makes the load fail when the index lines disagree on the stack
	// shape instead of keeping the last one.
	Strict bool
}

// NewLoader creates a loader logging to logger.
func NewLoader(logger *zap.Logger, strict bool) *Loader {
	return &Loader{Logger: logger, Strict: strict}
}

// LoadDir loads the dataset below root with a default Loader.
func LoadDir(root string) (models.DatasetInfo, error) {
	var l Loader
	return l.LoadDir(root)
}

// LoadDir resolves the dataset paths below root, checks the required entries
// exist and parses the index and metadata files. Either the full DatasetInfo
// is returned or an error; a missing or broken metadata file only degrades the
// pixel size to DefaultPixelSize.
func (l *Loader) LoadDir(root string) (models.DatasetInfo, error) {
	logger := orNop(l.Logger).With(zap.String("root", root))

	paths := Resolve(root)
	if err := Validate(paths); err != nil {
		return models.DatasetInfo{}, &LoadError{Op: "validate layout", Root: root, Err: err}
	}

	parse := ParseIndex
	if l.Strict {
		parse = ParseIndexStrict
	}
	dims, err := parse(paths.IndexFile, logger)
	if err != nil {
		return models.DatasetInfo{}, &LoadError{Op: "parse index", Root: root, Err: err}
	}

	pixelSize := ParseMetadata(paths.MetadataFile, logger)

	logger.Info("Loaded dataset",
		zap.Int("width", dims.Width),
		zap.Int("height", dims.Height),
		zap.Int("depth", dims.Depth),
		zap.Int("timepoints", dims.Timepoints),
		zap.Float64("pixelSizeZ", pixelSize.Z))

	return models.DatasetInfo{
		Paths:      paths,
		Dimensions: dims,
		PixelSize:  pixelSize,
	}, nil
}
