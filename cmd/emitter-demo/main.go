package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/emberlink/emitkit/config"
	"github.com/emberlink/emitkit/emitter"
	"github.com/emberlink/emitkit/monitor"
)

var version string = "0"
var commit string = "abcd1234"
var date = "unknown"

// demoHost is the plain object the event capability gets installed on.
type demoHost struct {
	name string
}

func main() {
	configPath := flag.String("config", "", "manifest file name (optional)")
	listenStr := flag.String("listen", ":8080", "listen ip/port")
	otlpEndpoint := flag.String("otlp", "", "OTLP/HTTP endpoint for traces (optional)")
	showVersion := flag.Bool("version", false, "show version of build")

	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s (%s), built at %s\n", version, commit, date)
		os.Exit(0)
	}

	var cfg config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	shutdownTracing := func() {}
	if *otlpEndpoint != "" {
		var err error
		shutdownTracing, err = setupTracing(*otlpEndpoint)
		if err != nil {
			fmt.Printf("Error setting up tracing: %v\n", err)
			os.Exit(1)
		}
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	mon := monitor.New(1024)
	traces := monitor.NewTraceReporter()

	host := &demoHost{name: "demo"}
	cfg.ApplyTo(host)
	em := emitter.Install(host,
		emitter.WithWarningReporter(emitter.WarnFunc(func(msg string) {
			mon.Warn(msg)
			traces.Warn(msg)
		})),
		emitter.WithErrorReporter(emitter.DispatchErrorFunc(func(event string, target any, recovered any, stack []byte) {
			mon.DispatchError(event, target, recovered, stack)
			traces.DispatchError(event, target, recovered, stack)
		})),
	)
	registerDemoHandlers(em)

	for _, step := range cfg.Scenario {
		args := make([]any, len(step.Args))
		for i, a := range step.Args {
			args[i] = a
		}
		em.Trigger(step.Event, args...)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/logs", mon.SendHistoryHandler)
	r.GET("/logs/stream", mon.StreamRecordsHandler)
	r.GET("/events", listEventsHandler(em))
	r.POST("/events/trigger", triggerHandler(em))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("Shutting down emitter-demo")
		shutdownTracing()
		os.Exit(0)
	}()

	fmt.Println("emitter-demo listening on " + *listenStr)
	if err := r.Run(*listenStr); err != nil {
		fmt.Printf("Server error: %v\n", err)
		os.Exit(1)
	}
}

// registerDemoHandlers wires a few handlers so the scenario and the trigger
// endpoint have something to hit. "boom" panics on purpose to demonstrate
// dispatch isolation showing up in /logs.
func registerDemoHandlers(em *emitter.Emitter) {
	em.On("greet", func(ev emitter.Event, args ...any) {
		fmt.Printf("greet on %s: %v\n", hostName(ev), args)
	})
	em.On("announce.demo", func(ev emitter.Event, args ...any) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = fmt.Sprint(a)
		}
		fmt.Printf("announce: %s\n", strings.Join(parts, " "))
	})
	em.On("boom", func(emitter.Event, ...any) {
		panic("the boom handler always fails")
	})
	em.On("boom", func(emitter.Event, ...any) {
		fmt.Println("boom survivor still ran")
	})
}

func hostName(ev emitter.Event) string {
	if h, ok := ev.Target.(*demoHost); ok {
		return h.name
	}
	return fmt.Sprintf("%T", ev.Target)
}

func listEventsHandler(em *emitter.Emitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts := gin.H{}
		for _, name := range em.EventNames() {
			counts[name] = em.HandlerCount(name)
		}
		c.JSON(http.StatusOK, gin.H{"events": counts})
	}
}

func triggerHandler(em *emitter.Emitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
			return
		}

		eventName := gjson.GetBytes(bodyBytes, "event").String()
		if eventName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid 'event' key"})
			return
		}

		var args []any
		for _, v := range gjson.GetBytes(bodyBytes, "args").Array() {
			args = append(args, v.Value())
		}

		em.Trigger(eventName, args...)
		c.JSON(http.StatusOK, gin.H{"status": "ok", "handlers": em.HandlerCount(eventName)})
	}
}

// setupTracing installs a global tracer provider exporting over OTLP/HTTP,
// so monitor.TraceReporter spans leave the process.
func setupTracing(endpoint string) (func(), error) {
	ctx := context.Background()
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)

	return func() {
		if err := provider.Shutdown(ctx); err != nil {
			fmt.Printf("Error shutting down tracer provider: %v\n", err)
		}
	}, nil
}
