package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "offerhub"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists the in-module packages a layer may import, relative to its
// service root. Third-party imports are allowed only where thirdParty is set.
type layerRule struct {
	allowed    []string
	shared     bool
	thirdParty bool
}

var layerRules = map[string]layerRule{
	"domain":      {allowed: []string{"domain"}},
	"ports":       {allowed: []string{"domain", "ports"}, shared: true},
	"application": {allowed: []string{"application", "domain", "ports"}, shared: true},
	"transport":   {allowed: []string{"transport"}},
	"adapters":    {allowed: []string{"application", "domain", "ports", "transport"}, shared: true, thirdParty: true},
}

func main() {
	violations := collectViolations("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		return violations[i].Line < violations[j].Line
	})
	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) []violation {
	var violations []violation
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(path), "/")
		if len(parts) < 4 || parts[0] != "contexts" {
			return nil
		}
		servicePrefix := strings.Join([]string{modulePath, "contexts", parts[1], parts[2]}, "/")
		violations = append(violations, validateFile(path, filepath.ToSlash(path), parts[3], servicePrefix)...)
		return nil
	})
	return violations
}

func validateFile(path string, normalizedPath string, layer string, servicePrefix string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: normalizedPath, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		if rule := checkImport(layer, importPath, servicePrefix); rule != "" {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   fset.Position(imp.Pos()).Line,
				Import: importPath,
				Rule:   rule,
			})
		}
	}
	return violations
}

// checkImport returns the broken rule, or "" when the import is allowed.
func checkImport(layer string, importPath string, servicePrefix string) string {
	if isStdlib(importPath) {
		return ""
	}
	if hasPrefix(importPath, modulePath+"/contexts") && !hasPrefix(importPath, servicePrefix) {
		return "cross-service imports are forbidden"
	}

	rule, ok := layerRules[layer]
	if !ok {
		return ""
	}
	if !hasPrefix(importPath, modulePath) {
		if rule.thirdParty {
			return ""
		}
		return layer + " must not import third-party packages"
	}
	if hasPrefix(importPath, modulePath+"/internal/shared") {
		if rule.shared {
			return ""
		}
		return layer + " must not import shared runtime types"
	}
	for _, allowed := range rule.allowed {
		if hasPrefix(importPath, servicePrefix+"/"+allowed) {
			return ""
		}
	}
	return layer + " import is outside its allowlist"
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
