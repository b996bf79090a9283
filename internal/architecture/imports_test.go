package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// layerRules maps a directory prefix under the module root to the internal
// packages it must not import.
var layerRules = []struct {
	prefix    string
	forbidden []string
}{
	{"internal/pkg/", []string{"internal/app", "internal/http", "internal/services", "internal/data", "internal/clients", "internal/domain"}},
	{"internal/platform/", []string{"internal/app", "internal/http", "internal/services", "internal/data", "internal/clients"}},
	{"internal/domain/", []string{"internal/app", "internal/http", "internal/services", "internal/data", "internal/clients"}},
	{"internal/normalize/", []string{"internal/app", "internal/http", "internal/services", "internal/data", "internal/clients"}},
	{"internal/clients/", []string{"internal/app", "internal/http", "internal/services", "internal/data"}},
	{"internal/data/", []string{"internal/app", "internal/http", "internal/services", "internal/clients"}},
	{"internal/services/", []string{"internal/app", "internal/http"}},
	{"internal/http/", []string{"internal/app", "internal/data", "internal/clients"}},
}

func TestImportBoundaries(t *testing.T) {
	root, err := moduleRoot()
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}

	fset := token.NewFileSet()
	var violations []string
	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		var forbidden []string
		for _, rule := range layerRules {
			if strings.HasPrefix(rel, rule.prefix) {
				forbidden = rule.forbidden
				break
			}
		}
		if len(forbidden) == 0 {
			return nil
		}

		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			for _, bad := range forbidden {
				full := modulePath + "/" + bad
				if imp == full || strings.HasPrefix(imp, full+"/") {
					violations = append(violations, fmt.Sprintf("- %s imports %q (layer forbids %s)", rel, imp, bad))
				}
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n%s", strings.Join(violations, "\n"))
	}
}

func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if mp, ok := strings.CutPrefix(line, "module "); ok {
			if mp = strings.TrimSpace(mp); mp != "" {
				return mp, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
