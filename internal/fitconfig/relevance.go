package fitconfig

import (
	"context"
	"log/slog"
	"slices"

	"github.com/vk/fitconf/internal/config"
	"github.com/vk/fitconf/internal/ctxlog"
)

// FitTypeSimplex selects the Simplex algorithm, the only one that takes var
// and logvar declarations. It is also what refine = 1 runs after the primary
// algorithm.
const FitTypeSimplex = "sim"

// algorithmKeys lists the settings only one algorithm reads.
var algorithmKeys = map[string][]string{
	"de":  {"mutation_rate", "mutation_factor", "stop_tolerance", "islands", "migrate_every", "num_to_migrate"},
	"pso": {"cognitive", "social", "particle_weight", "particle_weight_final", "adaptive_n_max", "adaptive_n_stop", "adaptive_abs_tol", "adaptive_rel_tol"},
	"ss":  {"init_size", "local_min_limit", "reserve_size"},
	"bmc": {"step_size", "burn_in", "sample_every", "output_hist_every", "hist_bins", "credible_intervals"},
	"sim": {"simplex_step", "simplex_log_step", "simplex_reflection", "simplex_expansion", "simplex_contraction", "simplex_shrink", "simplex_max_iterations"},
}

// FitTypes returns every supported fit_type in sorted order.
func FitTypes() []string {
	out := make([]string, 0, len(algorithmKeys))
	for ft := range algorithmKeys {
		out = append(out, ft)
	}
	slices.Sort(out)
	return out
}

// ignoredKeys returns, in source order, the user keys the selected algorithm
// will not read. Simplex keys stay relevant when refinement is on.
func ignoredKeys(raw *config.Model, fitType string, refine int) []string {
	ignored := make(map[string]struct{})
	for alg, keys := range algorithmKeys {
		if alg == fitType || (alg == FitTypeSimplex && refine == 1) {
			continue
		}
		for _, k := range keys {
			ignored[k] = struct{}{}
		}
	}

	var out []string
	for _, k := range raw.Order {
		if _, ok := ignored[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// warnUnusedKeys logs one warning per ignored key. It is a no-op unless the
// logger accepts warnings.
func warnUnusedKeys(ctx context.Context, raw *config.Model, s Settings) {
	logger := ctxlog.FromContext(ctx)
	if !logger.Enabled(ctx, slog.LevelWarn) {
		return
	}
	for _, k := range ignoredKeys(raw, s.FitType, s.Refine) {
		logger.Warn("Configuration key is not used by the selected fit type, ignoring it.", "key", k, "fit_type", s.FitType)
	}
}
