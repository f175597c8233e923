package config

import "sort"

var Presets = map[string]*Config{
	"parabola": {
		Function: "x^2", Lower: 0, Upper: 1, MaxN: 20,
		Intervals: []int{10, 100, 1000, 10000}, Threshold: 1e-5,
	},
	"sine_arch": {
		Function: "sin", Lower: 0, Upper: 3.141592653589793, MaxN: 20,
		Intervals: []int{10, 100, 1000, 10000}, Threshold: 1e-5,
	},
	"exp_unit": {
		Function: "exp", Lower: 0, Upper: 1, MaxN: 20,
		Intervals: []int{10, 100, 1000, 10000}, Threshold: 1e-5,
	},
	"log_two": {
		Function: "1/x", Lower: 1, Upper: 2, MaxN: 20,
		Intervals: []int{10, 100, 1000, 10000}, Threshold: 1e-5,
	},
	"cubic_wide": {
		Function: "x^3", Lower: -1, Upper: 3, MaxN: 40,
		Intervals: []int{10, 100, 1000, 10000}, Threshold: 1e-5,
	},
	"exp_steep": {
		Function: "exp", Lower: 0, Upper: 5, MaxN: 60,
		Intervals: []int{10, 100, 1000, 10000, 100000}, Threshold: 1e-5,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Intervals = append([]int(nil), p.Intervals...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
