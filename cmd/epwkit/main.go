// Command epwkit runs the weather-file analyses against an EPW file and
// prints a summary: psychrometric state points, plane-of-array irradiance
// for the requested surfaces, and the wind-resource assessment.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/epwkit/epwkit/internal/log"
	"github.com/epwkit/epwkit/pkg/epw"
	"github.com/epwkit/epwkit/pkg/irradiance"
	"github.com/epwkit/epwkit/pkg/psychro"
	"github.com/epwkit/epwkit/pkg/solarpos"
	"github.com/epwkit/epwkit/pkg/timeseries"
	"github.com/epwkit/epwkit/pkg/wind"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	epwFile := flag.String("epw", "", "Path to the EPW weather file (required)")
	skyModel := flag.String("sky-model", string(irradiance.SkyIsotropic),
		"Sky-diffuse model: isotropic, haydavies, reindl, king, perez")
	surfaceSpec := flag.String("surfaces", "90@0,90@90,90@180,90@270",
		"Surfaces as tilt@azimuth pairs, comma separated (degrees)")
	albedo := flag.Float64("albedo", irradiance.DefaultAlbedo, "Ground albedo [0,1]")
	sectors := flag.Int("sectors", 16, "Wind-rose sector count: 4, 8 or 16")
	measHeight := flag.Float64("wind-height", 10, "Wind measurement height, m")
	hubHeight := flag.Float64("hub-height", 0, "Extrapolate wind speeds to this height, m (0 = off)")
	shear := flag.Float64("shear", wind.DefaultShearExponent, "Power-law shear exponent")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("epwkit %s\n", version)
		os.Exit(0)
	}
	if *epwFile == "" {
		fmt.Fprintln(os.Stderr, "the -epw flag is required; run with -h for help")
		os.Exit(2)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	surfaces, err := parseSurfaces(*surfaceSpec)
	if err != nil {
		log.Fatalf("Invalid -surfaces value: %v", err)
	}

	frame, err := epw.ReadFile(*epwFile)
	if err != nil {
		log.Fatalf("Failed to read EPW file: %v", err)
	}
	site := frame.Site()
	log.Infow("loaded weather file", "path", *epwFile, "samples", frame.Len(),
		"latitude", site.Latitude, "longitude", site.Longitude, "utc_offset", site.UTCOffset)

	if err := runPsychro(frame); err != nil {
		log.Fatalf("Psychrometric analysis failed: %v", err)
	}
	if err := runIrradiance(frame, surfaces, irradiance.SkyModel(*skyModel), *albedo); err != nil {
		log.Fatalf("Irradiance analysis failed: %v", err)
	}
	if err := runWind(frame, *sectors, *measHeight, *hubHeight, *shear); err != nil {
		log.Fatalf("Wind analysis failed: %v", err)
	}
}

// parseSurfaces parses "tilt@azimuth" pairs, e.g. "90@180,30@225".
func parseSurfaces(spec string) ([]irradiance.Surface, error) {
	var out []irradiance.Surface
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tiltStr, azStr, ok := strings.Cut(part, "@")
		if !ok {
			return nil, fmt.Errorf("%q is not a tilt@azimuth pair", part)
		}
		tilt, err := strconv.ParseFloat(tiltStr, 64)
		if err != nil {
			return nil, fmt.Errorf("bad tilt in %q: %w", part, err)
		}
		az, err := strconv.ParseFloat(azStr, 64)
		if err != nil {
			return nil, fmt.Errorf("bad azimuth in %q: %w", part, err)
		}
		out = append(out, irradiance.Surface{Tilt: tilt, Azimuth: az})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no surfaces in %q", spec)
	}
	return out, nil
}

func runPsychro(frame *timeseries.Frame) error {
	engine, err := psychro.NewEngine(psychro.Config{
		RHPolicy: psychro.RHClamp,
		Logger:   log.GetSugaredLogger(),
	})
	if err != nil {
		return err
	}
	sp, err := engine.FromWeather(frame)
	if err != nil {
		return err
	}

	fmt.Println("Psychrometric summary:")
	fmt.Printf("  mean enthalpy:        %8.2f kJ/kg\n", mean(sp.Enthalpy()))
	fmt.Printf("  mean humidity ratio:  %8.5f kg/kg\n", mean(sp.HumidityRatio()))
	fmt.Printf("  mean wet bulb:        %8.2f °C\n", mean(sp.WetBulb()))
	return nil
}

func runIrradiance(frame *timeseries.Frame, surfaces []irradiance.Surface, model irradiance.SkyModel, albedo float64) error {
	results, err := irradiance.ForSurfaces(frame, nil, surfaces, irradiance.BatchOptions{
		Options:  irradiance.Options{Model: model, Albedo: albedo},
		Position: solarpos.ModelEphemeris,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Plane-of-array irradiation (%s model):\n", model)
	for _, r := range results {
		// Hourly Wh/m² summed over the year, reported as kWh/m².
		fmt.Printf("  tilt %5.1f° azimuth %5.1f°: %8.1f kWh/m²/yr (direct %5.1f, sky %5.1f, ground %5.1f)\n",
			r.Surface.Tilt, r.Surface.Azimuth,
			sum(r.Global)/1000, sum(r.Direct)/1000, sum(r.SkyDiffuse)/1000, sum(r.GroundDiffuse)/1000)
	}
	return nil
}

func runWind(frame *timeseries.Frame, sectors int, measHeight, hubHeight, shear float64) error {
	opt := wind.ResourceOptions{
		Sectors:           sectors,
		MeasurementHeight: measHeight,
		ShearExponent:     shear,
		Logger:            log.GetSugaredLogger(),
	}
	if hubHeight > 0 {
		opt.TargetHeight = hubHeight
	}
	res, err := wind.AnalyzeResource(frame, opt)
	if err != nil {
		return err
	}

	fmt.Println("Wind resource:")
	fmt.Printf("  mean speed:      %6.2f m/s (median %.2f, calm %.1f%%)\n",
		res.Stats.Mean, res.Stats.Median, res.Stats.CalmFraction*100)
	fmt.Printf("  power density:   %6.1f W/m²\n", res.Stats.PowerDensity)
	if res.Weibull.Valid() {
		fmt.Printf("  Weibull fit:     k=%.2f c=%.2f m/s\n", res.Weibull.K, res.Weibull.C)
	}
	fmt.Printf("  mean direction:  %6.1f° (σ %.1f°)\n", res.MeanDirection, res.DirectionStdDev)

	names := res.Rose.Sectors
	totals := res.Rose.SectorTotals()
	dominant := 0
	for i, t := range totals {
		if t > totals[dominant] {
			dominant = i
		}
	}
	fmt.Printf("  dominant sector: %s (%.1f%% of hours)\n", names[dominant], totals[dominant]*100)
	return nil
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return stat.Mean(v, nil)
}

func sum(v []float64) float64 {
	return floats.Sum(v)
}
