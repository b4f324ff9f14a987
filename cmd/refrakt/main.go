package main

import (
	"context"
	"flag"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/photonlab/refrakt/internal/agnostic"
	"github.com/photonlab/refrakt/internal/elements"
	"github.com/photonlab/refrakt/internal/field"
)

var (
	gridSize      = flag.Int("grid", 64, "Pupil grid samples per axis")
	gridDelta     = flag.Float64("delta", 1e-4, "Sample spacing in meters")
	apertureR     = flag.Float64("aperture", 2e-3, "Gaussian aperture radius in meters")
	magnification = flag.Float64("mag", 2.0, "Relay magnification")
	lambdaMin     = flag.Float64("lambda-min", 500e-9, "Shortest wavelength in meters")
	lambdaMax     = flag.Float64("lambda-max", 700e-9, "Longest wavelength in meters")
	numLambda     = flag.Int("wavelengths", 8, "Number of wavelengths in the sweep")
	maxConcurrent = flag.Int("max-concurrent", 4, "Maximum concurrent propagations")
	outPath       = flag.String("out", "", "Write the last propagated field as CBOR to this path")
	listenAddr    = flag.String("listen", "", "Address to serve /metrics on (e.g. :8080)")
	enableOTel    = flag.Bool("otel", false, "Enable OpenTelemetry tracing (stdout)")
)

var tracer trace.Tracer

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	flag.Parse()
	if *numLambda < 1 {
		log.Fatal().Int("wavelengths", *numLambda).Msg("Need at least one wavelength")
	}

	if *enableOTel {
		shutdown, err := initTracer()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracer")
		}
		defer func() { _ = shutdown(context.Background()) }()
	}
	tracer = otel.Tracer("refrakt")

	if *listenAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			log.Info().Str("addr", *listenAddr).Msg("Serving Prometheus metrics")
			if err := http.ListenAndServe(*listenAddr, nil); err != nil {
				log.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	pupil := field.NewRegularGrid([2]int{*gridSize, *gridSize}, [2]float64{*gridDelta, *gridDelta})

	train, err := buildTrain(pupil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build optical train")
	}

	last, err := runSweep(context.Background(), train, pupil)
	if err != nil {
		log.Fatal().Err(err).Msg("Sweep failed")
	}

	if *outPath != "" && last != nil {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create output file")
		}
		defer func() { _ = f.Close() }()
		if err := field.WriteField(f, last.ElectricField()); err != nil {
			log.Fatal().Err(err).Msg("Failed to write field snapshot")
		}
		log.Info().Str("path", *outPath).Msg("Wrote field snapshot")
	}
}

// opticalTrain is the demo system: a chromatic Gaussian apodizer feeding a
// fixed-magnification relay.
type opticalTrain struct {
	apodizer  *elements.Apodizer
	magnifier *elements.Magnifier
}

func (tr *opticalTrain) propagate(wf *field.Wavefront) (*field.Wavefront, error) {
	out, err := tr.apodizer.Forward(wf)
	if err != nil {
		return nil, err
	}
	return tr.magnifier.Forward(out)
}

func buildTrain(pupil *field.Grid) (*opticalTrain, error) {
	r2 := *apertureR * *apertureR

	// The aperture shape depends on the grid, the throughput on the
	// wavelength; composing the two keeps the product lazy per context.
	aperture := agnostic.Generated(func(g *field.Grid) (*field.Field, error) {
		data := make([]complex128, g.Size())
		for i := range data {
			rr := g.X()[i]*g.X()[i] + g.Y()[i]*g.Y()[i]
			data[i] = complex(math.Exp(-rr/r2), 0)
		}
		return field.New(data, g)
	})
	throughput := agnostic.OfWavelength(func(wl float64) (agnostic.Value, error) {
		// Mild chromatic attenuation toward the red end.
		return agnostic.Scalar(complex(1-0.2*(wl-*lambdaMin)/(*lambdaMax-*lambdaMin), 0)), nil
	})

	apodization, err := agnostic.Compose(func(args ...agnostic.Value) (agnostic.Value, error) {
		return agnostic.FieldValue(args[0].Field().Scale(args[1].Scalar())), nil
	}, aperture, throughput)
	if err != nil {
		return nil, err
	}

	apodizer, err := elements.NewApodizer(apodization)
	if err != nil {
		return nil, err
	}
	magnifier, err := elements.NewMagnifier(*magnification)
	if err != nil {
		return nil, err
	}
	return &opticalTrain{apodizer: apodizer, magnifier: magnifier}, nil
}

func runSweep(ctx context.Context, train *opticalTrain, pupil *field.Grid) (*field.Wavefront, error) {
	ctx, span := tracer.Start(ctx, "sweep")
	defer span.End()
	span.SetAttributes(
		attribute.Int("wavelengths", *numLambda),
		attribute.Int("grid_size", *gridSize),
	)

	sem := semaphore.NewWeighted(int64(*maxConcurrent))
	results := make([]*field.Wavefront, *numLambda)
	errs := make([]error, *numLambda)

	start := time.Now()
	for i := 0; i < *numLambda; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		go func(i int) {
			defer sem.Release(1)
			wl := *lambdaMin
			if *numLambda > 1 {
				wl += (*lambdaMax - *lambdaMin) * float64(i) / float64(*numLambda-1)
			}
			_, pspan := tracer.Start(ctx, "propagate", trace.WithAttributes(attribute.Float64("wavelength", wl)))
			defer pspan.End()

			wf := field.NewWavefront(field.Uniform(pupil, 1), wl)
			out, err := train.propagate(wf)
			if err != nil {
				pspan.RecordError(err)
				errs[i] = err
				return
			}
			results[i] = out
			log.Info().
				Float64("wavelength_nm", wl*1e9).
				Float64("power_in", wf.Power()).
				Float64("power_out", out.Power()).
				Msg("Propagated")
		}(i)
	}
	if err := sem.Acquire(ctx, int64(*maxConcurrent)); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	log.Info().Dur("elapsed", time.Since(start)).Int("wavelengths", *numLambda).Msg("Sweep complete")
	return results[*numLambda-1], nil
}

func initTracer() (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("refrakt"),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp.Shutdown, nil
}
