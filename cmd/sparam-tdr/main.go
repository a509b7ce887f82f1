// Command sparam-tdr reads a Touchstone file and prints a TDR report:
// step-response statistics and an impedance profile summary.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/rfkit/sparam"
)

// Default analysis parameters.
const (
	defaultWindow        = "hanning"
	defaultPadding       = 4
	defaultVelocity      = 0.5
	defaultImpedanceRows = 10
)

func main() {
	var (
		input        = flag.String("input", "", "Touchstone file to analyze (.s2p/.s4p)")
		windowName   = flag.String("window", "", "Window type: none, hamming, hanning, blackman, kaiser, flattop, exponential")
		padding      = flag.Int("padding", 0, "Zero-padding factor (2..128)")
		velocity     = flag.Float64("velocity", 0, "Velocity factor as a fraction of c, in (0, 1]")
		freqLimitGHz = flag.Float64("freq-limit-ghz", 0, "Upper frequency limit in GHz (0 = full sweep)")
		lowPass      = flag.Bool("low-pass", false, "Apply the half-cosine low-pass taper")
		impedance    = flag.Bool("impedance", false, "Print the impedance profile summary")
		verbose      = flag.Bool("verbose", false, "Enable debug diagnostics")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	sparam.SetLogger(log.Logger)

	loadDefaults()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := buildConfig(*windowName, *padding, *velocity, *freqLimitGHz, *lowPass)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatal().Err(err).Str("file", *input).Msg("cannot read input")
	}

	nw, err := sparam.ParseTouchstone(string(data), *input)
	if err != nil {
		log.Fatal().Err(err).Str("file", *input).Msg("parse failed")
	}

	fmt.Printf("Network: %s\n", nw.Name)
	fmt.Printf("  Ports: %d\n", nw.NumPorts)
	fmt.Printf("  Points: %d\n", nw.NumPoints())
	fmt.Printf("  Sweep: %.3f - %.3f GHz\n", nw.Freqs[0]/1e9, nw.Freqs[len(nw.Freqs)-1]/1e9)

	res, err := sparam.ComputeTDR(nw, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("tdr computation failed")
	}

	printTDRSummary(res, cfg)

	if *impedance {
		printImpedanceSummary(res)
	}
}

// loadDefaults installs the analysis defaults and binds the SPARAM_*
// environment overrides.
func loadDefaults() {
	viper.SetDefault("window", defaultWindow)
	viper.SetDefault("padding", defaultPadding)
	viper.SetDefault("velocity", defaultVelocity)

	viper.SetEnvPrefix("sparam")
	viper.AutomaticEnv()
}

// buildConfig merges flags over the viper defaults.
func buildConfig(windowName string, padding int, velocity, freqLimitGHz float64, lowPass bool) (sparam.TDRConfig, error) {
	if windowName == "" {
		windowName = viper.GetString("window")
	}
	if padding == 0 {
		padding = viper.GetInt("padding")
	}
	if velocity == 0 {
		velocity = viper.GetFloat64("velocity")
	}

	wt, err := sparam.ParseWindowType(windowName)
	if err != nil {
		return sparam.TDRConfig{}, err
	}

	cfg := sparam.TDRConfig{
		Window: sparam.WindowSpec{
			Type:          wt,
			PaddingFactor: padding,
			LowPass:       lowPass,
		},
		VelocityFactor: velocity,
		FreqLimitHz:    freqLimitGHz * 1e9,
	}
	return cfg, cfg.Validate()
}

func printTDRSummary(res *sparam.TDRResult, cfg sparam.TDRConfig) {
	minV, maxV, mean := stats(res.ReflectionMU)

	fmt.Printf("\nTDR step response (%s window, padding %d):\n",
		cfg.Window.Type, cfg.Window.PaddingFactor)
	fmt.Printf("  Samples: %d\n", len(res.ReflectionMU))
	fmt.Printf("  Time span: %.3f ns\n", res.TimeNS[len(res.TimeNS)-1])
	fmt.Printf("  Distance span: %.2f in\n", res.DistanceInches[len(res.DistanceInches)-1])
	fmt.Printf("  Reflection: min %.2f mU, max %.2f mU, mean %.2f mU\n", minV, maxV, mean)
}

func printImpedanceSummary(res *sparam.TDRResult) {
	z := sparam.ImpedanceProfile(res.ReflectionMU)
	minV, maxV, mean := stats(z)

	fmt.Printf("\nImpedance profile:\n")
	fmt.Printf("  Min: %.1f ohm, Max: %.1f ohm, Mean: %.1f ohm\n", minV, maxV, mean)

	// Print a coarse profile over distance.
	step := len(z) / defaultImpedanceRows
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(z); i += step {
		fmt.Printf("  %8.2f in  %6.1f ohm\n", res.DistanceInches[i], z[i])
	}
}

func stats(s []float64) (minV, maxV, mean float64) {
	if len(s) == 0 {
		return 0, 0, 0
	}
	minV, maxV = s[0], s[0]
	var sum float64
	for _, v := range s {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		sum += v
	}
	return minV, maxV, sum / float64(len(s))
}
