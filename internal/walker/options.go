package walker

import "strings"

// Options controls which entries a traversal returns and how their paths
// are rendered. The zero value keeps every entry and returns full paths.
type Options struct {
	// OnlyFiles drops directories from the results.
	OnlyFiles bool

	// ExcludeFiles drops files from the results, leaving directories.
	// The "only directories" aliases set this flag; files-only and
	// directories-only are tracked as separate conditions.
	ExcludeFiles bool

	// ExcludeDirectories drops directories from the results. It does not
	// stop the recursive walk from descending into them.
	ExcludeDirectories bool

	// ExcludeHidden drops entries whose bare name starts with ".",
	// regardless of whether they are files or directories.
	ExcludeHidden bool

	// Extension keeps only entries whose bare name ends in "." followed
	// by this value, compared case-insensitively. A leading dot in the
	// value is ignored.
	Extension string

	// StripPath returns root-relative paths instead of full paths. For
	// the flat List call this means bare names.
	StripPath bool
}

// Canonical option-bag keys. Every alias in optionAliases resolves to one
// of these before any filtering logic runs.
const (
	keyOnlyFiles          = "onlyFiles"
	keyOnlyDirectories    = "onlyDirectories"
	keyExcludeFiles       = "excludeFiles"
	keyExcludeDirectories = "excludeDirectories"
	keyExcludeHidden      = "excludeHidden"
	keyExtension          = "extension"
	keyStripPath          = "stripPath"
)

// optionAliases maps every accepted option-bag key to its canonical key.
// Keys not present here are silently ignored, which keeps old bags working
// when new options appear.
var optionAliases = map[string]string{
	"onlyFiles":          keyOnlyFiles,
	"onlyFile":           keyOnlyFiles,
	"onlyDirectories":    keyOnlyDirectories,
	"onlyDirectory":      keyOnlyDirectories,
	"onlyDirs":           keyOnlyDirectories,
	"onlyDir":            keyOnlyDirectories,
	"onlyFolders":        keyOnlyDirectories,
	"onlyFolder":         keyOnlyDirectories,
	"excludeFiles":       keyExcludeFiles,
	"noFiles":            keyExcludeFiles,
	"excludeDirectories": keyExcludeDirectories,
	"excludeDirs":        keyExcludeDirectories,
	"excludeDir":         keyExcludeDirectories,
	"noDirectories":      keyExcludeDirectories,
	"noDirs":             keyExcludeDirectories,
	"noDir":              keyExcludeDirectories,
	"excludeHidden":      keyExcludeHidden,
	"excludeHiddenFiles": keyExcludeHidden,
	"extension":          keyExtension,
	"ext":                keyExtension,
	"stripPath":          keyStripPath,
	"strip":              keyStripPath,
}

// ParseOptions normalizes a loosely-typed option bag into Options.
//
// Flag values count as set when they are a true bool, a non-zero integer,
// or one of the strings "1", "true", "yes" (case-insensitive). The
// "only directories" aliases suppress files rather than enabling the
// files-only condition, and win over onlyFiles when both appear in the
// same bag.
func ParseOptions(bag map[string]any) Options {
	var opts Options
	onlyDirectories := false

	for key, value := range bag {
		canonical, ok := optionAliases[key]
		if !ok {
			continue
		}

		if canonical == keyExtension {
			if ext, ok := value.(string); ok {
				opts.Extension = strings.TrimPrefix(ext, ".")
			}
			continue
		}

		if !truthy(value) {
			continue
		}

		switch canonical {
		case keyOnlyFiles:
			opts.OnlyFiles = true
		case keyOnlyDirectories:
			onlyDirectories = true
		case keyExcludeFiles:
			opts.ExcludeFiles = true
		case keyExcludeDirectories:
			opts.ExcludeDirectories = true
		case keyExcludeHidden:
			opts.ExcludeHidden = true
		case keyStripPath:
			opts.StripPath = true
		}
	}

	if onlyDirectories {
		opts.ExcludeFiles = true
		opts.OnlyFiles = false
	}

	return opts
}

// truthy interprets the loose flag values an option bag may carry.
func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(v) {
		case "1", "true", "yes":
			return true
		}
	}
	return false
}
