package models

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// DatasetPaths holds the locations of the files that make up a SPIM dataset
// directory. All paths are derived from Root and never change afterwards.
type DatasetPaths struct {
	// Root is the directory chosen by the user
	Root string `yaml:"root"`

	// DataDir is the subdirectory holding the raw stack data
	DataDir string `yaml:"dataDir"`

	// IndexFile lists one line per recorded timepoint
	IndexFile string `yaml:"indexFile"`

	// DataFile is the binary stack data. Only its existence matters here.
	DataFile string `yaml:"dataFile"`

	// MetadataFile holds the acquisition settings (z range, plane count)
	MetadataFile string `yaml:"metadataFile"`
}

// StackDimensions is the shape of the 4D stack in voxels and timepoints.
type StackDimensions struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	Depth      int `yaml:"depth"`
	Timepoints int `yaml:"timepoints"`
}

// PixelSize is the physical size of a voxel in microns
type PixelSize struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vec returns the pixel size as a vector.
func (p PixelSize) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// DatasetInfo is the result of loading a dataset directory.
type DatasetInfo struct {
	Paths      DatasetPaths    `yaml:"paths"`
	Dimensions StackDimensions `yaml:"dimensions"`
	PixelSize  PixelSize       `yaml:"pixelSize"`
}

// Extent returns the physical size of a single stack in microns, i.e. the
// voxel counts scaled by the pixel size along each axis.
func (d DatasetInfo) Extent() r3.Vec {
	return r3.Vec{
		X: float64(d.Dimensions.Width) * d.PixelSize.X,
		Y: float64(d.Dimensions.Height) * d.PixelSize.Y,
		Z: float64(d.Dimensions.Depth) * d.PixelSize.Z,
	}
}

// Diagonal returns the length of the stack's space diagonal in microns.
func (d DatasetInfo) Diagonal() float64 {
	return r3.Norm(d.Extent())
}
