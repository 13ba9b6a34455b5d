package pathutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestToRelative(t *testing.T) {
	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{
			name:     "simple relative path",
			absPath:  "/home/user/project/src/main.wfl",
			rootDir:  "/home/user/project",
			expected: "src/main.wfl",
		},
		{
			name:     "nested relative path",
			absPath:  "/home/user/project/modules/lib/greet.wfl",
			rootDir:  "/home/user/project",
			expected: "modules/lib/greet.wfl",
		},
		{
			name:     "root level file",
			absPath:  "/home/user/project/nextflow.config",
			rootDir:  "/home/user/project",
			expected: "nextflow.config",
		},
		{
			name:     "same directory",
			absPath:  "/home/user/project",
			rootDir:  "/home/user/project",
			expected: ".",
		},
		{
			name:     "already relative path",
			absPath:  "src/main.wfl",
			rootDir:  "/home/user/project",
			expected: "src/main.wfl",
		},
		{
			name:     "path outside root falls back to absolute",
			absPath:  "/other/location/file.wfl",
			rootDir:  "/home/user/project",
			expected: "/other/location/file.wfl",
		},
		{
			name:     "empty root directory",
			absPath:  "/home/user/project/file.wfl",
			rootDir:  "",
			expected: "/home/user/project/file.wfl",
		},
		{
			name:     "empty absolute path",
			absPath:  "",
			rootDir:  "/home/user/project",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToRelative(tt.absPath, tt.rootDir)
			expected := tt.expected
			if runtime.GOOS == "windows" {
				result = filepath.ToSlash(result)
				expected = filepath.ToSlash(expected)
			}
			if result != expected {
				t.Errorf("ToRelative() = %v, want %v", result, expected)
			}
		})
	}
}
