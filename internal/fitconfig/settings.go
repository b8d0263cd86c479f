package fitconfig

import (
	"math"
	"maps"
	"path/filepath"
	"reflect"
	"slices"

	"github.com/vk/fitconf/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Settings is the resolved table of global settings. It is a value: Merge
// returns a new record and never touches the receiver.
type Settings struct {
	FitType        string
	Objfunc        string
	Models         []string
	ExpData        []string
	OutputDir      string
	DeleteOldFiles int
	NumToOutput    int
	OutputEvery    int
	Initialization string
	Refine         int
	BNGCommand     string
	PopulationSize int
	MaxIterations  int
	ParallelCount  int
	WallTimeGen    int
	WallTimeSim    int

	// Differential evolution.
	MutationRate   float64
	MutationFactor float64
	Islands        int
	MigrateEvery   int
	NumToMigrate   int
	StopTolerance  float64

	// Particle swarm.
	Cognitive           float64
	Social              float64
	ParticleWeight      float64
	ParticleWeightFinal float64
	AdaptiveNMax        int
	AdaptiveNStop       float64
	AdaptiveAbsTol      float64
	AdaptiveRelTol      float64

	// Scatter search.
	InitSize      int
	LocalMinLimit int
	ReserveSize   int

	// Bayesian MCMC.
	StepSize          float64
	BurnIn            int
	SampleEvery       int
	OutputHistEvery   int
	HistBins          int
	CredibleIntervals []float64

	// Simplex.
	SimplexStep          float64
	SimplexLogStep       float64
	SimplexReflection    float64
	SimplexExpansion     float64
	SimplexContraction   float64
	SimplexShrink        float64
	SimplexMaxIterations int

	// Extra holds user keys this package does not interpret.
	Extra map[string]cty.Value

	set map[string]struct{}
}

// bngExecutable is the BioNetGen entry script inside $BNGPATH.
const bngExecutable = "BNG2.pl"

// DefaultSettings returns a fresh defaults record. getenv is consulted for
// BNGPATH; pass os.Getenv in production.
func DefaultSettings(getenv func(string) string) Settings {
	bngCommand := ""
	if dir := getenv("BNGPATH"); dir != "" {
		bngCommand = filepath.Join(dir, bngExecutable)
	}

	return Settings{
		FitType:        "de",
		Objfunc:        "chi_sq",
		OutputDir:      "bnf_out",
		DeleteOldFiles: 0,
		NumToOutput:    1000000,
		OutputEvery:    20,
		Initialization: "lh",
		Refine:         0,
		BNGCommand:     bngCommand,
		WallTimeGen:    3600,
		WallTimeSim:    3600,

		MutationRate:   0.5,
		MutationFactor: 1.0,
		Islands:        1,
		MigrateEvery:   20,
		NumToMigrate:   3,
		StopTolerance:  0.002,

		ParticleWeight: 1.0,
		AdaptiveNMax:   30,
		AdaptiveNStop:  math.Inf(1),
		AdaptiveAbsTol: 0.0,
		AdaptiveRelTol: 0.0,

		LocalMinLimit: 5,

		StepSize:          0.2,
		BurnIn:            10000,
		SampleEvery:       100,
		OutputHistEvery:   10000,
		HistBins:          10,
		CredibleIntervals: []float64{68, 95},

		SimplexStep:        1.0,
		SimplexReflection:  1.0,
		SimplexExpansion:   1.0,
		SimplexContraction: 0.5,
		SimplexShrink:      0.5,

		Extra: map[string]cty.Value{},
		set:   map[string]struct{}{},
	}
}

// settingFields binds each known key to the field that stores it.
var settingFields = map[string]func(*Settings) any{
	"fit_type":         func(s *Settings) any { return &s.FitType },
	"objfunc":          func(s *Settings) any { return &s.Objfunc },
	config.KeyModels:   func(s *Settings) any { return &s.Models },
	config.KeyExpData:  func(s *Settings) any { return &s.ExpData },
	"output_dir":       func(s *Settings) any { return &s.OutputDir },
	"delete_old_files": func(s *Settings) any { return &s.DeleteOldFiles },
	"num_to_output":    func(s *Settings) any { return &s.NumToOutput },
	"output_every":     func(s *Settings) any { return &s.OutputEvery },
	"initialization":   func(s *Settings) any { return &s.Initialization },
	"refine":           func(s *Settings) any { return &s.Refine },
	"bng_command":      func(s *Settings) any { return &s.BNGCommand },
	"population_size":  func(s *Settings) any { return &s.PopulationSize },
	"max_iterations":   func(s *Settings) any { return &s.MaxIterations },
	"parallel_count":   func(s *Settings) any { return &s.ParallelCount },
	"wall_time_gen":    func(s *Settings) any { return &s.WallTimeGen },
	"wall_time_sim":    func(s *Settings) any { return &s.WallTimeSim },

	"mutation_rate":   func(s *Settings) any { return &s.MutationRate },
	"mutation_factor": func(s *Settings) any { return &s.MutationFactor },
	"islands":         func(s *Settings) any { return &s.Islands },
	"migrate_every":   func(s *Settings) any { return &s.MigrateEvery },
	"num_to_migrate":  func(s *Settings) any { return &s.NumToMigrate },
	"stop_tolerance":  func(s *Settings) any { return &s.StopTolerance },

	"cognitive":             func(s *Settings) any { return &s.Cognitive },
	"social":                func(s *Settings) any { return &s.Social },
	"particle_weight":       func(s *Settings) any { return &s.ParticleWeight },
	"particle_weight_final": func(s *Settings) any { return &s.ParticleWeightFinal },
	"adaptive_n_max":        func(s *Settings) any { return &s.AdaptiveNMax },
	"adaptive_n_stop":       func(s *Settings) any { return &s.AdaptiveNStop },
	"adaptive_abs_tol":      func(s *Settings) any { return &s.AdaptiveAbsTol },
	"adaptive_rel_tol":      func(s *Settings) any { return &s.AdaptiveRelTol },

	"init_size":       func(s *Settings) any { return &s.InitSize },
	"local_min_limit": func(s *Settings) any { return &s.LocalMinLimit },
	"reserve_size":    func(s *Settings) any { return &s.ReserveSize },

	"step_size":          func(s *Settings) any { return &s.StepSize },
	"burn_in":            func(s *Settings) any { return &s.BurnIn },
	"sample_every":       func(s *Settings) any { return &s.SampleEvery },
	"output_hist_every":  func(s *Settings) any { return &s.OutputHistEvery },
	"hist_bins":          func(s *Settings) any { return &s.HistBins },
	"credible_intervals": func(s *Settings) any { return &s.CredibleIntervals },

	"simplex_step":           func(s *Settings) any { return &s.SimplexStep },
	"simplex_log_step":       func(s *Settings) any { return &s.SimplexLogStep },
	"simplex_reflection":     func(s *Settings) any { return &s.SimplexReflection },
	"simplex_expansion":      func(s *Settings) any { return &s.SimplexExpansion },
	"simplex_contraction":    func(s *Settings) any { return &s.SimplexContraction },
	"simplex_shrink":         func(s *Settings) any { return &s.SimplexShrink },
	"simplex_max_iterations": func(s *Settings) any { return &s.SimplexMaxIterations },
}

// KnownKey reports whether key is a setting this package interprets.
func KnownKey(key string) bool {
	_, ok := settingFields[key]
	return ok
}

// Merge returns a copy of s with every setting in raw applied on top.
func (s Settings) Merge(raw *config.Model) (Settings, error) {
	out := s.clone()
	for _, key := range raw.Order {
		val := raw.Settings[key]
		out.set[key] = struct{}{}

		bind, known := settingFields[key]
		if !known {
			out.Extra[key] = val
			continue
		}
		if err := assign(val, bind(&out)); err != nil {
			return Settings{}, &SettingError{Key: key, Err: err}
		}
	}
	return out, nil
}

// IsSet reports whether the user supplied key, as opposed to it holding a
// default.
func (s Settings) IsSet(key string) bool {
	_, ok := s.set[key]
	return ok
}

func (s Settings) clone() Settings {
	out := s
	out.Models = slices.Clone(s.Models)
	out.ExpData = slices.Clone(s.ExpData)
	out.CredibleIntervals = slices.Clone(s.CredibleIntervals)
	out.Extra = maps.Clone(s.Extra)
	out.set = maps.Clone(s.set)
	if out.Extra == nil {
		out.Extra = map[string]cty.Value{}
	}
	if out.set == nil {
		out.set = map[string]struct{}{}
	}
	return out
}

// assign converts val to the cty type implied by the Go field behind target
// and stores it there. Conversion is lenient in the way HCL is: "0.5" becomes
// a number and a tuple becomes a list.
func assign(val cty.Value, target any) error {
	ty, err := gocty.ImpliedType(reflect.ValueOf(target).Elem().Interface())
	if err != nil {
		return err
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(converted, target)
}
