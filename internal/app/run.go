package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/modelserver"
	"golang.org/x/net/html"
)

// Run declares the manifest applications, boots the page and writes the
// rendered document to the output writer.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	var modelURL string
	if a.config.ServeModels != "" {
		srv := modelserver.New(a.config.ServeModels, a.metrics, a.logger)
		if err := srv.Start(fmt.Sprintf("127.0.0.1:%d", a.config.Port)); err != nil {
			return fmt.Errorf("failed to start model server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("Model server shutdown failed", "error", err)
			}
		}()
		modelURL = srv.URL()
	}

	if err := a.declare(ctx, modelURL); err != nil {
		return fmt.Errorf("failed to declare applications: %w", err)
	}

	doc, err := readPage(a.config.PagePath)
	if err != nil {
		return err
	}

	// Services live until the page is rendered.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bootErr := a.container.BootDocument(runCtx, doc)
	if bootErr == nil {
		a.logger.Info("Document booted.", "applications", a.container.Names(), "hash", a.location.Hash())
		if a.config.Follow {
			a.logger.Info("Following navigation until interrupted.")
			<-ctx.Done()
			a.logger.Debug("Stopped following navigation.", "hash", a.location.Hash())
		}
	}

	cancel()
	if err := a.container.Close(); err != nil {
		a.logger.Warn("Failed to close services.", "error", err)
	}
	if bootErr != nil {
		return fmt.Errorf("failed to boot document: %w", bootErr)
	}

	if err := a.container.Render(a.outW, doc); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func readPage(path string) (*html.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", path, err)
	}
	return doc, nil
}
