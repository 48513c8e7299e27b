package salestune

import (
	"math"
	"testing"

	"github.com/salestune/salestune/forecast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		SeasonalityMode:       SeasonalityAdditive,
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 1.0,
	}
}

func TestConfigValidate(t *testing.T) {
	testData := map[string]struct {
		modify func(*Config)
		err    error
	}{
		"valid": {
			modify: func(*Config) {},
		},
		"unknown mode": {
			modify: func(c *Config) { c.SeasonalityMode = "mixed" },
			err:    ErrInvalidSeasonalityMode,
		},
		"zero changepoint prior": {
			modify: func(c *Config) { c.ChangepointPriorScale = 0 },
			err:    ErrInvalidPriorScale,
		},
		"negative seasonality prior": {
			modify: func(c *Config) { c.SeasonalityPriorScale = -1 },
			err:    ErrInvalidPriorScale,
		},
		"unsupported winsor quantile": {
			modify: func(c *Config) { c.WinsorQuantile = 0.5 },
			err:    ErrInvalidWinsorQuantile,
		},
		"winsor disabled is valid": {
			modify: func(c *Config) { c.WinsorQuantile = 0 },
		},
		"semester without window": {
			modify: func(c *Config) { c.UseSemesterSeasonality = true },
			err:    ErrInvalidSemesterWindow,
		},
		"semester with supported window": {
			modify: func(c *Config) {
				c.UseSemesterSeasonality = true
				c.SemesterWindowDays = 14
			},
		},
		"unsupported window ignored when semester off": {
			modify: func(c *Config) { c.SemesterWindowDays = 3 },
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			td.modify(&cfg)
			err := cfg.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
		})
	}
}

func TestConfigSeasonalities(t *testing.T) {
	cfg := validConfig()
	seas := cfg.Seasonalities()
	require.Len(t, seas, 1)
	assert.Equal(t, "weekly", seas[0].Name)

	cfg.YearlySeasonality = true
	cfg.UseMonthlySeasonality = true
	cfg.UseSemesterSeasonality = true
	seas = cfg.Seasonalities()
	require.Len(t, seas, 4)

	names := make([]string, 0, len(seas))
	for _, s := range seas {
		names = append(names, s.Name)
		assert.Greater(t, s.Orders, 0)
		assert.Greater(t, int64(s.Period), int64(0))
	}
	assert.Equal(t, []string{"weekly", "yearly", "monthly", "semester"}, names)
}

func TestConfigOptionalSeasonalities(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, 0, cfg.OptionalSeasonalities())

	cfg.YearlySeasonality = true
	assert.Equal(t, 1, cfg.OptionalSeasonalities())

	cfg.UseMonthlySeasonality = true
	cfg.UseSemesterSeasonality = true
	assert.Equal(t, 3, cfg.OptionalSeasonalities())
}

func TestGrowthPolicyFor(t *testing.T) {
	additive := GrowthPolicyFor(SeasonalityAdditive, 100, 1.5)
	assert.Equal(t, forecast.GrowthLogistic, additive.Type)
	assert.Equal(t, 0.0, additive.Floor)
	assert.InDelta(t, math.Log1p(150), additive.Cap, 1e-12)

	multiplicative := GrowthPolicyFor(SeasonalityMultiplicative, 100, 1.5)
	assert.Equal(t, forecast.GrowthLinear, multiplicative.Type)
}

func TestGridEnumerate(t *testing.T) {
	grid := NewDefaultGrid()
	combos := grid.Enumerate()

	// 2 modes x 2 cps x 2 sps x 2 yearly x 2 winsor x 2 monthly, then one
	// zero-window combination with semester off plus all four windows with
	// it on
	assert.Len(t, combos, 64*5)

	assert.Equal(t, combos, grid.Enumerate())

	for _, cfg := range combos {
		require.Nil(t, cfg.Validate())
		if !cfg.UseSemesterSeasonality {
			assert.Equal(t, 0, cfg.SemesterWindowDays)
		}
	}

	seen := make(map[Config]struct{}, len(combos))
	for _, cfg := range combos {
		_, exists := seen[cfg]
		assert.False(t, exists, "duplicate combination")
		seen[cfg] = struct{}{}
	}
}

func TestGridEnumerateSemesterWindows(t *testing.T) {
	grid := &Grid{
		SeasonalityModes:       []SeasonalityMode{SeasonalityAdditive},
		ChangepointPriorScales: []float64{0.05},
		SeasonalityPriorScales: []float64{1.0},
		YearlySeasonality:      []bool{false},
		WinsorQuantiles:        []float64{0},
		UseMonthlySeasonality:  []bool{false},
		UseSemesterSeasonality: []bool{true},
		SemesterWindowDays:     []int{7, 14, 21, 28},
	}
	combos := grid.Enumerate()
	require.Len(t, combos, 4)
	for i, cfg := range combos {
		assert.Equal(t, grid.SemesterWindowDays[i], cfg.SemesterWindowDays)
	}
}

func TestGridEnumerateNoWindows(t *testing.T) {
	grid := &Grid{
		SeasonalityModes:       []SeasonalityMode{SeasonalityAdditive},
		ChangepointPriorScales: []float64{0.05},
		SeasonalityPriorScales: []float64{1.0},
		YearlySeasonality:      []bool{false},
		WinsorQuantiles:        []float64{0},
		UseMonthlySeasonality:  []bool{false},
		UseSemesterSeasonality: []bool{false},
	}
	combos := grid.Enumerate()
	require.Len(t, combos, 1)
	assert.Equal(t, 0, combos[0].SemesterWindowDays)
}
