// Package salestune tunes and evaluates per-series forecast models: it runs a
// time-based holdout grid search over preprocessing and model choices,
// selects a best configuration per series, and refits it on the full history
// to produce a forecast artifact.
package salestune

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/salestune/salestune/forecast"
)

var (
	ErrInvalidSeasonalityMode = errors.New("unknown seasonality mode")
	ErrInvalidPriorScale      = errors.New("prior scale must be positive")
	ErrInvalidWinsorQuantile  = errors.New("unsupported winsor quantile")
	ErrInvalidSemesterWindow  = errors.New("unsupported semester window length")
)

// Target is the series quantity being modelled.
type Target string

const (
	TargetQty     Target = "qty"
	TargetRevenue Target = "revenue"
)

// SeriesKey identifies one independent tuning problem. Data from different
// keys is never mixed.
type SeriesKey struct {
	Category string `json:"category"`
	Target   Target `json:"target"`
}

func (k SeriesKey) String() string {
	return k.Category + "/" + string(k.Target)
}

// SeasonalityMode selects how seasonal components combine with the trend.
type SeasonalityMode string

const (
	SeasonalityAdditive       SeasonalityMode = "additive"
	SeasonalityMultiplicative SeasonalityMode = "multiplicative"
)

var (
	validWinsorQuantiles = []float64{0, 0.99, 0.995, 0.999}
	validSemesterWindows = []int{7, 14, 21, 28}
)

// Config is one point of the search space. Configs are pure values; no state
// is shared between evaluations. A zero WinsorQuantile disables
// winsorization.
type Config struct {
	SeasonalityMode        SeasonalityMode `json:"seasonality_mode"`
	ChangepointPriorScale  float64         `json:"changepoint_prior_scale"`
	SeasonalityPriorScale  float64         `json:"seasonality_prior_scale"`
	YearlySeasonality      bool            `json:"yearly_seasonality"`
	WinsorQuantile         float64         `json:"winsor_quantile"`
	UseMonthlySeasonality  bool            `json:"use_monthly_seasonality"`
	UseSemesterSeasonality bool            `json:"use_semester_seasonality"`
	SemesterWindowDays     int             `json:"semester_window_days"`
}

// Validate rejects invalid combinations before any fitting starts.
func (c Config) Validate() error {
	switch c.SeasonalityMode {
	case SeasonalityAdditive, SeasonalityMultiplicative:
	default:
		return fmt.Errorf("%q, %w", c.SeasonalityMode, ErrInvalidSeasonalityMode)
	}
	if c.ChangepointPriorScale <= 0 || c.SeasonalityPriorScale <= 0 {
		return fmt.Errorf(
			"changepoint %f seasonality %f, %w",
			c.ChangepointPriorScale, c.SeasonalityPriorScale, ErrInvalidPriorScale,
		)
	}
	if !slices.Contains(validWinsorQuantiles, c.WinsorQuantile) {
		return fmt.Errorf("%f, %w", c.WinsorQuantile, ErrInvalidWinsorQuantile)
	}
	if c.UseSemesterSeasonality && !slices.Contains(validSemesterWindows, c.SemesterWindowDays) {
		return fmt.Errorf("%d days, %w", c.SemesterWindowDays, ErrInvalidSemesterWindow)
	}
	return nil
}

// OptionalSeasonalities counts the enabled optional seasonal components,
// used by the selection tie-break to prefer simpler models.
func (c Config) OptionalSeasonalities() int {
	var n int
	for _, enabled := range []bool{c.YearlySeasonality, c.UseMonthlySeasonality, c.UseSemesterSeasonality} {
		if enabled {
			n++
		}
	}
	return n
}

// Seasonalities expands the config into the engine's Fourier components.
// Weekly seasonality is always modelled; the rest are optional.
func (c Config) Seasonalities() []forecast.Seasonality {
	seas := []forecast.Seasonality{
		{Name: "weekly", Period: 7 * 24 * time.Hour, Orders: 3},
	}
	if c.YearlySeasonality {
		// 365.25 days
		seas = append(seas, forecast.Seasonality{Name: "yearly", Period: 8766 * time.Hour, Orders: 10})
	}
	if c.UseMonthlySeasonality {
		// mean synodic month, ~30.44 days
		seas = append(seas, forecast.Seasonality{Name: "monthly", Period: 730 * time.Hour, Orders: 5})
	}
	if c.UseSemesterSeasonality {
		// half a year
		seas = append(seas, forecast.Seasonality{Name: "semester", Period: 4383 * time.Hour, Orders: 2})
	}
	return seas
}

// GrowthPolicyFor maps the seasonality mode to the growth policy, chosen once
// and never branched on elsewhere. Additive fits are bounded with a logistic
// floor of zero and a cap at capMultiple times the historical maximum;
// multiplicative fits extrapolate linearly. histMax is in the original scale
// and the bounds are converted to the engine's log working scale.
func GrowthPolicyFor(mode SeasonalityMode, histMax, capMultiple float64) forecast.GrowthPolicy {
	if mode == SeasonalityAdditive {
		return forecast.LogisticGrowth(0, math.Log1p(capMultiple*histMax))
	}
	return forecast.LinearGrowth()
}

// Grid enumerates the configuration search space field-wise.
type Grid struct {
	SeasonalityModes       []SeasonalityMode
	ChangepointPriorScales []float64
	SeasonalityPriorScales []float64
	YearlySeasonality      []bool
	WinsorQuantiles        []float64
	UseMonthlySeasonality  []bool
	UseSemesterSeasonality []bool
	SemesterWindowDays     []int
}

// NewDefaultGrid returns the default search space.
func NewDefaultGrid() *Grid {
	return &Grid{
		SeasonalityModes:       []SeasonalityMode{SeasonalityAdditive, SeasonalityMultiplicative},
		ChangepointPriorScales: []float64{0.05, 0.5},
		SeasonalityPriorScales: []float64{1.0, 10.0},
		YearlySeasonality:      []bool{true, false},
		WinsorQuantiles:        []float64{0, 0.995},
		UseMonthlySeasonality:  []bool{false, true},
		UseSemesterSeasonality: []bool{false, true},
		SemesterWindowDays:     []int{7, 14, 21, 28},
	}
}

// Enumerate expands the Cartesian product in a fixed nesting order so the
// same grid always yields the same combination sequence. Semester window
// lengths only vary when semester seasonality is enabled; otherwise a single
// combination with a zero window is emitted.
func (g *Grid) Enumerate() []Config {
	var combos []Config
	for _, mode := range g.SeasonalityModes {
		for _, cps := range g.ChangepointPriorScales {
			for _, sps := range g.SeasonalityPriorScales {
				for _, yearly := range g.YearlySeasonality {
					for _, winsorQ := range g.WinsorQuantiles {
						for _, monthly := range g.UseMonthlySeasonality {
							for _, semester := range g.UseSemesterSeasonality {
								windows := g.SemesterWindowDays
								if !semester {
									windows = []int{0}
								}
								for _, window := range windows {
									combos = append(combos, Config{
										SeasonalityMode:        mode,
										ChangepointPriorScale:  cps,
										SeasonalityPriorScale:  sps,
										YearlySeasonality:      yearly,
										WinsorQuantile:         winsorQ,
										UseMonthlySeasonality:  monthly,
										UseSemesterSeasonality: semester,
										SemesterWindowDays:     window,
									})
								}
							}
						}
					}
				}
			}
		}
	}
	return combos
}
