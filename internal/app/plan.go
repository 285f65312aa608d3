package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/flowbench/internal/config"
	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/fsutil"
	"github.com/vk/flowbench/internal/scenario"
)

// resourceExtensions are the file types discovered in directories.
var resourceExtensions = []string{".hcl", ".yaml", ".yml"}

// job is one scenario to run in its own session.
type job struct {
	Name       string
	Resource   string
	Invocation scenario.Invocation
}

// discover expands directories into the resource files they contain.
func discover(paths []string) ([]string, error) {
	var resources []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s': %w", fsutil.ErrNotFound, p, err)
		}
		if !info.IsDir() {
			resources = append(resources, p)
			continue
		}
		found, err := fsutil.FindFilesByExtension(p, resourceExtensions...)
		if err != nil {
			return nil, fmt.Errorf("failed to search %s: %w", p, err)
		}
		resources = append(resources, found...)
	}
	return resources, nil
}

// plan turns the configured paths into jobs: either the single requested flow
// or every declared scenario, in resource then declaration order.
func (a *App) plan(ctx context.Context) ([]job, error) {
	logger := ctxlog.FromContext(ctx)

	resources, err := discover(a.config.Paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resources discovered.", "count", len(resources))

	if a.config.Flow != "" {
		if len(resources) != 1 {
			return nil, fmt.Errorf("running a single flow requires exactly one resource, found %d", len(resources))
		}
		return []job{{
			Name:       a.config.Flow,
			Resource:   resources[0],
			Invocation: scenario.Invocation{Flow: a.config.Flow, Expected: a.config.Expect},
		}}, nil
	}

	var jobs []job
	for _, res := range resources {
		model, err := a.loader.Load(ctx, res)
		if err != nil {
			return nil, fmt.Errorf("failed to read scenarios of %s: %w", res, err)
		}
		for _, sc := range model.Scenarios {
			payload, err := config.ToNative(sc.Payload)
			if err != nil {
				return nil, fmt.Errorf("scenario '%s' in %s: invalid payload: %w", sc.Name, res, err)
			}
			jobs = append(jobs, job{
				Name:       sc.Name,
				Resource:   res,
				Invocation: scenario.Invocation{Flow: sc.Flow, Expected: sc.Expect, Payload: payload},
			})
		}
		logger.Debug("Scenarios planned.", "resource", res, "count", len(model.Scenarios))
	}
	return jobs, nil
}
