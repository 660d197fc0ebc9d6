package config

import "github.com/temirov/snapshot/internal/utils"

const (
	// DefaultOutputFileName is the snapshot file written into the working directory.
	DefaultOutputFileName = "project_snapshot.txt"
	// DefaultMaxFileSizeBytes bounds included file contents.
	DefaultMaxFileSizeBytes int64 = 1048576
	// DefaultWorkers processes files sequentially.
	DefaultWorkers = 1
)

// DefaultExcludedDirectories lists version control, IDE, build and dependency directories.
var DefaultExcludedDirectories = []string{
	utils.GitDirectoryName,
	".svn",
	".hg",
	".vs",
	".vscode",
	".idea",
	"node_modules",
	"bin",
	"obj",
	"packages",
	"dist",
	"build",
	"target",
	"vendor",
	"__pycache__",
	".venv",
	"venv",
}

// DefaultExcludedFilePatterns lists binary, executable, image, archive and media globs.
var DefaultExcludedFilePatterns = []string{
	"*.exe", "*.dll", "*.so", "*.dylib", "*.pdb", "*.obj", "*.o", "*.a", "*.lib",
	"*.class", "*.jar", "*.pyc", "*.wasm",
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.ico", "*.webp", "*.tiff",
	"*.zip", "*.tar", "*.gz", "*.tgz", "*.7z", "*.rar", "*.nupkg",
	"*.pdf", "*.mp3", "*.mp4", "*.wav", "*.avi", "*.mov",
	"*.woff", "*.woff2", "*.ttf", "*.eot",
	"*.db", "*.sqlite",
}

// Defaults returns the built-in configuration layer.
func Defaults() ApplicationConfiguration {
	maxFileSize := DefaultMaxFileSizeBytes
	workers := DefaultWorkers
	return ApplicationConfiguration{
		Output:          DefaultOutputFileName,
		ExcludeDirs:     append([]string{}, DefaultExcludedDirectories...),
		ExcludeFiles:    append([]string{}, DefaultExcludedFilePatterns...),
		MaxFileSize:     &maxFileSize,
		CaseInsensitive: boolPointer(true),
		UseGitignore:    boolPointer(false),
		Workers:         &workers,
		Clipboard:       boolPointer(false),
		Tokens: TokenConfiguration{
			Enabled: boolPointer(false),
			Model:   "gpt-4o",
		},
	}
}

func boolPointer(value bool) *bool {
	return &value
}
