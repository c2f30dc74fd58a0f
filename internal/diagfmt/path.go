package diagfmt

import (
	"bigcalc/internal/source"
)

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	case PathModeAuto:
		return f.FormatPath("auto", "")
	}
	return f.Path
}

// formatBarePath applies the same mode to a path that is not in the FileSet.
func formatBarePath(path string, fs *source.FileSet, mode PathMode) string {
	f := source.File{Path: path}
	baseDir := ""
	if fs != nil {
		baseDir = fs.BaseDir()
	}
	switch mode {
	case PathModeRelative:
		return f.FormatPath("relative", baseDir)
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeBasename:
		return f.FormatPath("basename", "")
	case PathModeAuto:
		return f.FormatPath("auto", "")
	}
	return path
}

func inFileSet(fs *source.FileSet, span source.Span) bool {
	return fs != nil && int(span.File) < fs.Len()
}
