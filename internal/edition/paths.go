package edition

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// DirPrefix starts the name of every edition directory.
const DirPrefix = "edition "

// File and directory names inside an edition directory.
const (
	ImagesDirName = "images"
	MetadataFile  = "metadata.csv"
	SummaryFile   = "edition.toml"
	ArchiveFile   = "edition.db"
	ImageExt      = ".png"
)

// Dir returns the directory holding one edition's output.
func Dir(outputRoot, edition string) string {
	return filepath.Join(outputRoot, DirPrefix+edition)
}

// ImagesDir returns the directory holding an edition's artifact images.
func ImagesDir(outputRoot, edition string) string {
	return filepath.Join(Dir(outputRoot, edition), ImagesDirName)
}

// Width returns the zero-padding width for artifact indexes of a run that
// requests count artifacts: the number of digits in count-1.
func Width(count int) int {
	if count <= 1 {
		return 1
	}
	return len(strconv.Itoa(count - 1))
}

// ImageName returns the file name of artifact index, zero-padded to width.
func ImageName(index, width int) string {
	return fmt.Sprintf("%0*d%s", width, index, ImageExt)
}
