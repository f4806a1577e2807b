package generator

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/denizgursoy/cacik-events/pkg/gherkin_parser"
)

const (
	TestFileName = "cacik_events_test.go"

	// ModulePath is the module the generated test imports.
	ModulePath = "github.com/denizgursoy/cacik-events"
)

var ErrModuleNotRequired = errors.New("module does not require " + ModulePath)

var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

type Options struct {
	Directory          string   // Package directory to write into; defaults to the working directory
	FeatureDirectories []string // Feature directories relative to Directory
	Tags               string
	NoColor            bool
}

// StartGenerator writes a go test file that runs the feature files of the
// package through the event pipeline. The package must belong to a module
// that can import the runner, correlator and reporter packages.
func StartGenerator(options Options) (err error) {
	if options.Tags != "" {
		if _, err := gherkin_parser.ParseTagExpression(options.Tags); err != nil {
			return err
		}
	}

	directory := options.Directory
	if directory == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cannot get working directory: %w", err)
		}
		directory = cwd
	}

	pkgPath, err := checkModule(directory)
	if err != nil {
		return err
	}

	output := &Output{
		FeatureDirectories: options.FeatureDirectories,
		Tags:               options.Tags,
		NoColor:            options.NoColor,
	}

	pkgName, detectErr := detectPackageName(directory)
	if detectErr != nil {
		log.Printf("warning: could not detect package: %v", detectErr)
	}
	if pkgName != "" {
		output.PackageName = pkgName
	}

	create, err := createFile(filepath.Join(directory, TestFileName))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := create.Close(); err == nil {
			err = closeErr
		}
	}()

	if err = output.Generate(create); err != nil {
		log.Println(err.Error())
		return err
	}

	log.Printf("generated %s for package %s", TestFileName, pkgPath)

	return nil
}

// detectPackageName detects the Go package name for the given directory.
// It first tries to read the package clause from existing Go files.
// If no Go files exist, it falls back to deriving the name from the directory
// path (or the module path for the module root).
func detectPackageName(dir string) (string, error) {
	fset := token.NewFileSet()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		// Skip the files we generate
		if name == TestFileName {
			continue
		}

		filePath := filepath.Join(dir, name)
		f, parseErr := parser.ParseFile(fset, filePath, nil, parser.PackageClauseOnly)
		if parseErr != nil {
			continue
		}
		if f.Name != nil && f.Name.Name != "" {
			return f.Name.Name, nil
		}
	}

	// No Go files found, derive package name from directory or module path.
	return packageNameFromDir(dir)
}

// packageNameFromDir derives a valid Go package name from the directory path.
// At the module root it uses the last segment of the module path from go.mod.
// Otherwise it uses the directory name, sanitising characters that are invalid
// in Go identifiers (hyphens, dots, etc.).
func packageNameFromDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	// Try to use the module path when we're at the module root.
	goModPath := filepath.Join(absDir, "go.mod")
	if data, readErr := os.ReadFile(goModPath); readErr == nil {
		modFile, parseErr := modfile.Parse(goModPath, data, nil)
		if parseErr == nil && modFile.Module != nil {
			base := filepath.Base(modFile.Module.Mod.Path)
			if name := sanitizePackageName(base); name != "" {
				return name, nil
			}
		}
	}

	// Fall back to the directory name.
	base := filepath.Base(absDir)
	if name := sanitizePackageName(base); name != "" {
		return name, nil
	}

	return "", fmt.Errorf("cannot derive package name from directory %s", dir)
}

// sanitizePackageName turns a raw name (directory segment or module path
// segment) into a valid Go package name. Invalid characters such as hyphens
// and dots are replaced with underscores, and leading digits are prefixed
// with an underscore.
func sanitizePackageName(raw string) string {
	if raw == "" || raw == "." || raw == "/" {
		return ""
	}

	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			// Go package names are conventionally lowercase.
			b.WriteRune(r - 'A' + 'a')
		case r == '-' || r == '.':
			if i == 0 {
				continue // drop leading separator
			}
			b.WriteRune('_')
		default:
			// Drop other characters.
		}
	}

	name := b.String()
	if name == "" {
		return ""
	}
	// A package name must not start with a digit.
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

// findModule walks up from dir looking for go.mod and returns it parsed
// together with the directory holding it.
func findModule(dir string) (*modfile.File, string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}

	current := absDir
	for {
		goModPath := filepath.Join(current, "go.mod")
		data, readErr := os.ReadFile(goModPath)
		if readErr == nil {
			modFile, parseErr := modfile.Parse(goModPath, data, nil)
			if parseErr != nil {
				return nil, "", fmt.Errorf("cannot parse go.mod: %w", parseErr)
			}
			if modFile.Module == nil {
				return nil, "", fmt.Errorf("go.mod in %s has no module directive", current)
			}
			return modFile, current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return nil, "", fmt.Errorf("go.mod not found in any parent of %s", dir)
		}
		current = parent
	}
}

// checkModule returns the import path of dir once its module is known to
// be cacik-events itself or to require it.
func checkModule(dir string) (string, error) {
	modFile, root, err := findModule(dir)
	if err != nil {
		return "", err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, absDir)
	if err != nil {
		return "", err
	}

	modulePath := modFile.Module.Mod.Path
	importPath := modulePath
	if rel != "." {
		importPath = modulePath + "/" + filepath.ToSlash(rel)
	}

	if modulePath == ModulePath {
		return importPath, nil
	}
	for _, require := range modFile.Require {
		if require.Mod.Path == ModulePath {
			return importPath, nil
		}
	}

	return "", fmt.Errorf("%w: %s, run go get %s", ErrModuleNotRequired, modulePath, ModulePath)
}
