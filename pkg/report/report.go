// Package report renders a loaded dataset for people and scripts.
package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"spiminfo/internal/models"
	"spiminfo/pkg/config"
)

// document is the YAML form of a dataset. Extent is derived, so it is not
// part of DatasetInfo itself.
type document struct {
	models.DatasetInfo `yaml:",inline"`
	Extent             extent `yaml:"extent"`
}

type extent struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
	Diagonal float64 `yaml:"diagonal"`
}

// Write renders info to w in the given format ("text" or "yaml").
func Write(w io.Writer, info models.DatasetInfo, format string) error {
	switch format {
	case config.FormatText:
		return writeText(w, info)
	case config.FormatYAML:
		return writeYAML(w, info)
	default:
		return fmt.Errorf("invalid format: %s (must be %s or %s)", format, config.FormatText, config.FormatYAML)
	}
}

func writeText(w io.Writer, info models.DatasetInfo) error {
	dims := info.Dimensions
	ps := info.PixelSize
	ext := info.Extent()

	lines := []string{
		fmt.Sprintf("Dataset:     %s", info.Paths.Root),
		fmt.Sprintf("Index file:  %s", info.Paths.IndexFile),
		fmt.Sprintf("Data file:   %s", info.Paths.DataFile),
		fmt.Sprintf("Metadata:    %s", info.Paths.MetadataFile),
		fmt.Sprintf("Stack size:  %d x %d x %d voxels", dims.Width, dims.Height, dims.Depth),
		fmt.Sprintf("Timepoints:  %d", dims.Timepoints),
		fmt.Sprintf("Pixel size:  %.4f x %.4f x %.4f um", ps.X, ps.Y, ps.Z),
		fmt.Sprintf("Extent:      %.2f x %.2f x %.2f um", ext.X, ext.Y, ext.Z),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeYAML(w io.Writer, info models.DatasetInfo) error {
	ext := info.Extent()
	doc := document{
		DatasetInfo: info,
		Extent:      extent{X: ext.X, Y: ext.Y, Z: ext.Z, Diagonal: info.Diagonal()},
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("error encoding report: %w", err)
	}
	return enc.Close()
}
