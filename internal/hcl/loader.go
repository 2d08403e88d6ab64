package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/schematic/internal/config"
	"github.com/vk/schematic/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

// NewLoader creates a new HCL manifest loader. Manifests can read the
// process environment through the `env` object.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// Load parses every .hcl file under paths and translates all application
// blocks into the model. Application names must be unique across files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	evalCtx := l.evalContext()
	cfg := &config.Model{}
	declaredIn := make(map[string]string)

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Applications {
			if prev, ok := declaredIn[block.Name]; ok {
				return nil, fmt.Errorf("application %q declared in both %s and %s", block.Name, prev, file)
			}
			declaredIn[block.Name] = file

			app, err := l.translateApplication(ctx, block, file, evalCtx)
			if err != nil {
				return nil, err
			}
			cfg.Applications = append(cfg.Applications, app)
		}
	}

	logger.Debug("HCL loading complete.", "applications", len(cfg.Applications))
	return cfg, nil
}

// evalContext exposes the environment as the `env` object.
func (l *Loader) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range l.environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || !hclIdentifier(k) {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{"env": env}}
}

func hclIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

// findAllHCLFiles walks all given paths and returns a sorted, de-duplicated
// list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) != ".hcl" {
				return nil, fmt.Errorf("manifest %s is not an .hcl file", path)
			}
			add(path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(allFiles)
	return allFiles, nil
}
