package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/vk/fitconf/internal/ctxlog"
	"github.com/vk/fitconf/internal/fitconfig"
)

// Run validates the loaded configuration, prints its summary and, when
// Samples is set, the initial parameter sets the configured initialization
// would start from.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	fit, err := fitconfig.New(ctx, a.raw, fitconfig.WithObjectives(a.registry))
	if err != nil {
		return err
	}
	a.fit = fit

	if err := a.printSummary(fit); err != nil {
		return err
	}
	if a.config.Samples > 0 {
		if err := a.printInitialSets(fit); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) printSummary(fit *fitconfig.Configuration) error {
	w := a.outW
	fmt.Fprintf(w, "fit_type: %s\n", fit.Settings.FitType)
	fmt.Fprintf(w, "objfunc: %s\n", fit.Objective.Name())
	fmt.Fprintf(w, "initialization: %s\n", fit.Settings.Initialization)

	fmt.Fprintln(w, "models:")
	for _, name := range fit.ModelNames {
		fmt.Fprintf(w, "  %s (%s): %s\n", name, fit.Models[name].FilePath(), strings.Join(fit.Mapping[name], ", "))
	}

	params, err := fit.Parameters()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "variables:")
	for _, p := range params {
		fmt.Fprintf(w, "  %s %s [%g, %g)\n", p.Kind(), p.Name(), p.LowerBound(), p.UpperBound())
	}
	return nil
}

func (a *App) printInitialSets(fit *fitconfig.Configuration) error {
	seed := a.config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	a.logger.Info("Sampling initial parameter sets.", "count", a.config.Samples, "method", fit.Settings.Initialization, "seed", seed)

	sets, err := fit.InitialSets(a.config.Samples, rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		return fmt.Errorf("failed to sample initial parameter sets: %w", err)
	}
	fmt.Fprintln(a.outW, "initial sets:")
	for i, s := range sets {
		fmt.Fprintf(a.outW, "  %d: %s\n", i+1, s)
	}
	return nil
}
