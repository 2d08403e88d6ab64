package app

import (
	"context"
	"fmt"

	"github.com/vk/schematic/internal/config"
	"github.com/vk/schematic/internal/container"
	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/registry"
	"github.com/vk/schematic/modules/router"
	"github.com/vk/schematic/modules/socketnav"
)

// declare registers every manifest application with the container,
// together with its models and services. modelURL is used by routers
// that do not name a URL of their own.
func (a *App) declare(ctx context.Context, modelURL string) error {
	for _, def := range a.manifest.Applications {
		ctx, logger := ctxlog.With(ctx, "app", def.Name)

		app := a.container.Application(def.Name, container.Config{
			Routable: def.Routable,
			Values:   def.Values,
		})
		for _, m := range def.Models {
			app.Model(m.Name, m.Spec)
		}

		if def.Router != nil {
			if err := initRouter(ctx, app, def.Router, modelURL); err != nil {
				return fmt.Errorf("application %s: %w", def.Name, err)
			}
		}
		switch {
		case def.Navigation == nil:
		case !a.config.Follow:
			logger.Info("Navigation feed ignored without --follow.", "url", def.Navigation.URL)
		default:
			if err := initNavigation(ctx, app, def.Navigation); err != nil {
				return fmt.Errorf("application %s: %w", def.Name, err)
			}
		}
		logger.Debug("Application declared.", "models", len(def.Models), "source", def.SourceFile)
	}
	return nil
}

func initRouter(ctx context.Context, app *container.Application, def *config.Router, modelURL string) error {
	_, err := app.Init(ctx, registry.Deps{
		Refs: registry.MustRefs("#" + router.Name),
		Factory: func(args ...any) (any, error) {
			r, ok := args[0].(*router.Router)
			if !ok {
				return nil, fmt.Errorf("#%s is %T, want *router.Router", router.Name, args[0])
			}

			base := def.URL
			if base == "" {
				base = modelURL
			}
			r.URL(base)
			if def.HTML5 {
				r.HTML5()
			}
			if def.FetchMode != "" {
				if err := r.FetchMode(def.FetchMode); err != nil {
					return nil, err
				}
			}
			for _, route := range def.Routes {
				r.On(route.Hash, route.Target)
			}
			if def.Default != "" {
				r.Default(def.Default)
			}
			return r, nil
		},
	})
	return err
}

func initNavigation(ctx context.Context, app *container.Application, def *config.Navigation) error {
	_, err := app.Init(ctx, registry.Deps{
		Refs: registry.MustRefs("#" + socketnav.Name),
		Factory: func(args ...any) (any, error) {
			f, ok := args[0].(*socketnav.Feed)
			if !ok {
				return nil, fmt.Errorf("#%s is %T, want *socketnav.Feed", socketnav.Name, args[0])
			}
			f.Configure(socketnav.Config{
				URL:                def.URL,
				Namespace:          def.Namespace,
				Event:              def.Event,
				InsecureSkipVerify: def.InsecureSkipVerify,
			})
			return f, nil
		},
	})
	return err
}
