package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/schematic/internal/config"
	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// translateApplication converts the HCL-specific application schema into the agnostic model.
func (l *Loader) translateApplication(ctx context.Context, b *ApplicationBlock, file string, evalCtx *hcl.EvalContext) (*config.Application, error) {
	logger := ctxlog.FromContext(ctx).With("app", b.Name, "file", file)

	values, err := translateValues(ctx, b.Config, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("in application '%s': %w", b.Name, err)
	}

	app := &config.Application{
		Name:       b.Name,
		Routable:   b.Routable,
		Values:     values,
		SourceFile: file,
	}

	seen := make(map[string]bool, len(b.Models))
	for _, m := range b.Models {
		if seen[m.Name] {
			return nil, fmt.Errorf("in application '%s': model '%s' declared twice", b.Name, m.Name)
		}
		seen[m.Name] = true

		def, err := readModel(m, filepath.Dir(file))
		if err != nil {
			return nil, fmt.Errorf("in application '%s': %w", b.Name, err)
		}
		app.Models = append(app.Models, def)
	}

	if b.Router != nil {
		app.Router = translateRouter(b.Router)
	}
	if b.Navigation != nil {
		app.Navigation = &config.Navigation{
			URL:                b.Navigation.URL,
			Namespace:          b.Navigation.Namespace,
			Event:              b.Navigation.Event,
			InsecureSkipVerify: b.Navigation.InsecureSkipVerify,
		}
	}

	logger.Debug("Application translated.", "models", len(app.Models), "router", app.Router != nil, "navigation", app.Navigation != nil)
	return app, nil
}

func translateRouter(b *RouterBlock) *config.Router {
	r := &config.Router{
		URL:       b.URL,
		FetchMode: b.FetchMode,
		HTML5:     b.HTML5,
	}
	if b.Default != nil {
		r.Default = *b.Default
	}
	for _, route := range b.Routes {
		r.Routes = append(r.Routes, &config.Route{Hash: route.Hash, Target: route.Target})
	}
	return r
}

// translateValues evaluates the `config` attribute, which must be an object
// or a map when present.
func translateValues(ctx context.Context, expr hcl.Expression, evalCtx *hcl.EvalContext) (map[string]cty.Value, error) {
	if !isExprDefined(ctx, expr, "config") {
		return map[string]cty.Value{}, nil
	}

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid config value: %w", diags)
	}
	if val.IsNull() {
		return map[string]cty.Value{}, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("config must be an object, got %s", ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("config must be known at load time")
	}
	values := val.AsValueMap()
	if values == nil {
		values = map[string]cty.Value{}
	}
	return values, nil
}

// readModel loads the model file of m. Relative sources are resolved
// against the manifest directory.
func readModel(m *ModelBlock, baseDir string) (*config.ModelDef, error) {
	path := m.Source
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model '%s': %w", m.Name, err)
	}
	spec, err := model.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("model '%s' (%s): %w", m.Name, path, err)
	}
	return &config.ModelDef{Name: m.Name, Source: path, Spec: spec}, nil
}

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional attributes with non-nil,
// zero-width expression objects, so a nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	// A real attribute occupies bytes in the file; an omitted one has a
	// zero-width range.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)

	return isDefined
}
