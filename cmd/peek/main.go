// Command peek previews files from a document-search backend in the
// terminal. This is the composition root: it wires the driven adapters
// (config, content sources, resource store, text extraction) into the
// core preview service and hands everything to the CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/peek-cli/internal/adapters/driven/api"
	"github.com/custodia-labs/peek-cli/internal/adapters/driven/blob"
	"github.com/custodia-labs/peek-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/peek-cli/internal/adapters/driven/extract"
	"github.com/custodia-labs/peek-cli/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/peek-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driven"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driving"
	"github.com/custodia-labs/peek-cli/internal/core/services"
)

// version is set at build time:
//
//	go build -ldflags "-X main.version=1.2.3"
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config: %w", err)
	}

	cli.SetVersion(version)
	cli.SetConfigStore(configStore)
	cli.SetTextExtractor(extract.NewPDFExtractor())
	cli.SetWatchSource(filesystem.NewSource(""))
	cli.SetPreviewFactory(func(local bool) (driving.PreviewService, error) {
		source, err := buildSource(configStore, local)
		if err != nil {
			return nil, err
		}
		store, err := blob.NewStore("")
		if err != nil {
			return nil, fmt.Errorf("creating resource store: %w", err)
		}
		return services.NewPreviewService(source, store)
	})

	return cli.Execute()
}

// buildSource picks the content source: the backend API when a server
// is configured, the local filesystem otherwise or when forced.
func buildSource(cfg driven.ConfigStore, local bool) (driven.ContentSource, error) {
	if local {
		return filesystem.NewSource(""), nil
	}

	baseURL := cfg.GetString(file.KeyServerURL)
	if baseURL == "" {
		// No backend configured; preview local files instead.
		return filesystem.NewSource(""), nil
	}

	var opts []api.Option
	if token := cfg.GetString(file.KeyAPIToken); token != "" {
		opts = append(opts, api.WithToken(token))
	}
	if secs := cfg.GetInt(file.KeyTimeoutSeconds); secs > 0 {
		opts = append(opts, api.WithTimeout(time.Duration(secs)*time.Second))
	}
	return api.NewClient(baseURL, opts...)
}
