package avif

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	EncoderName = "avifenc"
	DecoderName = "avifdec"
)

// Resolve prefers a copy of the tool shipped next to the binary (or in
// baseDir when set) and falls back to a PATH lookup by bare name.
func Resolve(baseDir string, name string) string {
	if baseDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return name
		}
		baseDir = filepath.Dir(exe)
	}

	p := filepath.Join(baseDir, name+executableExt())
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p
	}

	return name
}

func executableExt() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
