// Command sparam-cascade combines and splits S-parameter networks:
// fixture embedding and de-embedding plus 2x-to-1x device extraction.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rfkit/sparam"
)

func main() {
	var (
		op       = flag.String("op", "", "Operation: embed-left, embed-right, deembed-left, deembed-right, extract")
		device   = flag.String("device", "", "Device / measured Touchstone file")
		fixture  = flag.String("fixture", "", "Fixture Touchstone file (cascade operations)")
		method   = flag.String("method", "abcd", "Extraction method: abcd, symmetric")
		output   = flag.String("output", "", "Output Touchstone file")
		parallel = flag.Bool("parallel", false, "Process frequency points concurrently")
		verbose  = flag.Bool("verbose", false, "Enable debug diagnostics")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	sparam.SetLogger(log.Logger)

	if *op == "" || *device == "" || *output == "" {
		flag.Usage()
		os.Exit(2)
	}

	dev := mustLoad(*device)
	opts := sparam.AlgebraOptions{EnableParallel: *parallel}

	var (
		result *sparam.Network
		err    error
	)

	switch strings.ToLower(*op) {
	case "embed-left":
		result, err = sparam.EmbedLeft(dev, mustLoadFixture(*fixture), opts)
	case "embed-right":
		result, err = sparam.EmbedRight(dev, mustLoadFixture(*fixture), opts)
	case "deembed-left":
		result, err = sparam.DeembedLeft(dev, mustLoadFixture(*fixture), opts)
	case "deembed-right":
		result, err = sparam.DeembedRight(dev, mustLoadFixture(*fixture), opts)
	case "extract":
		result, err = runExtract(dev, *method)
	default:
		log.Fatal().Str("op", *op).Msg("unknown operation")
	}
	if err != nil {
		log.Fatal().Err(err).Str("op", *op).Msg("operation failed")
	}

	if err := writeTouchstone(*output, result); err != nil {
		log.Fatal().Err(err).Str("file", *output).Msg("write failed")
	}

	fmt.Printf("Wrote %s: %d-port network, %d points, %.3f - %.3f GHz\n",
		*output, result.NumPorts, result.NumPoints(),
		result.Freqs[0]/1e9, result.Freqs[len(result.Freqs)-1]/1e9)
}

func runExtract(dev *sparam.Network, methodName string) (*sparam.Network, error) {
	var method sparam.ExtractMethod
	switch strings.ToLower(methodName) {
	case "abcd":
		method = sparam.ExtractABCD
	case "symmetric":
		method = sparam.ExtractSymmetric
	default:
		return nil, fmt.Errorf("unknown extraction method %q", methodName)
	}

	result, report, err := sparam.ExtractSingleDevice(dev, method)
	if err != nil {
		return nil, err
	}

	if report.FallbackCount > 0 {
		log.Warn().
			Int("points", report.FallbackCount).
			Strs("reasons", report.FallbackReasons).
			Msg("extraction used symmetric fallback at some points")
	}
	return result, nil
}

func mustLoad(path string) *sparam.Network {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("cannot read input")
	}
	nw, err := sparam.ParseTouchstone(string(data), path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("parse failed")
	}
	return nw
}

func mustLoadFixture(path string) *sparam.Network {
	if path == "" {
		log.Fatal().Msg("cascade operations require -fixture")
	}
	return mustLoad(path)
}
