package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-stream/internal/camera"
	"github.com/kozaktomas/face-stream/internal/camera/mock"
	"github.com/kozaktomas/face-stream/internal/config"
	"github.com/kozaktomas/face-stream/internal/emotion"
	"github.com/kozaktomas/face-stream/internal/eventlog"
	"github.com/kozaktomas/face-stream/internal/pipeline"
	"github.com/kozaktomas/face-stream/internal/track"
	"github.com/kozaktomas/face-stream/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the face tracking web server",
	Long: `Start the Face Stream web server.
The server captures frames from the configured camera, tracks faces with
stable identities, and exposes the annotated MJPEG stream at /video plus
JSON tracking data at /api/v1/faces.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
	serveCmd.Flags().Bool("mock", false, "Use a synthetic camera instead of capture hardware")
}

// buildSource opens the frame source and its face detector.
func buildSource(cfg *config.Config, useMock bool) (pipeline.Source, pipeline.Detector, func(), error) {
	if useMock {
		fmt.Println("Using synthetic camera (no capture hardware)")
		src, det := mock.NewSynthetic()
		return src, det, func() {}, nil
	}

	src, err := camera.Open(cfg.Camera.Index)
	if err != nil {
		return nil, nil, nil, err
	}

	det, err := camera.NewCascadeDetector(cfg.Camera.CascadePath)
	if err != nil {
		src.Close()
		return nil, nil, nil, err
	}

	fmt.Printf("Camera opened at index %d\n", cfg.Camera.Index)
	return src, det, func() { det.Close() }, nil
}

// buildClassifier selects the emotion provider. An empty provider disables
// classification; every face then carries the neutral sentinel.
func buildClassifier(cfg *config.Config) (emotion.Classifier, error) {
	switch cfg.Emotion.Provider {
	case "":
		fmt.Println("Emotion classification disabled (EMOTION_PROVIDER is empty)")
		return nil, nil
	case "ollama":
		return emotion.NewOllamaClassifier(cfg.Ollama.URL, cfg.Ollama.Model, cfg.Labels.Labels), nil
	case "openai":
		if cfg.OpenAI.Token == "" {
			return nil, fmt.Errorf("OPENAI_TOKEN environment variable is required for the openai provider")
		}
		return emotion.NewOpenAIClassifier(cfg.OpenAI.Token, cfg.Labels.Labels), nil
	default:
		return nil, fmt.Errorf("unknown emotion provider %q (use \"ollama\", \"openai\" or leave empty)", cfg.Emotion.Provider)
	}
}

// buildEventSink opens the emotion event log. A configured database URL wins
// over the JSONL file.
func buildEventSink(cfg *config.Config) (eventlog.Sink, error) {
	if cfg.EventLog.DatabaseURL != "" {
		sink, err := eventlog.OpenPostgres(cfg.EventLog.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening event log database: %w", err)
		}
		fmt.Println("Emotion events go to PostgreSQL")
		return sink, nil
	}

	sink, err := eventlog.OpenJSONL(cfg.EventLog.Path)
	if err != nil {
		return nil, fmt.Errorf("opening event log file: %w", err)
	}
	fmt.Printf("Emotion events go to %s\n", cfg.EventLog.Path)
	return sink, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	port := mustGetInt(cmd, "port")
	if port == 0 {
		port = cfg.Web.Port
	}
	host := mustGetString(cmd, "host")
	if host == "" {
		host = cfg.Web.Host
	}

	source, detector, cleanup, err := buildSource(cfg, mustGetBool(cmd, "mock"))
	if err != nil {
		return err
	}
	defer cleanup()

	classifier, err := buildClassifier(cfg)
	if err != nil {
		return err
	}
	if classifier != nil {
		fmt.Printf("Emotion provider: %s (every %d frames)\n", classifier.Name(), cfg.Emotion.Every)
	}

	sink, err := buildEventSink(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	pipe := pipeline.New(
		source,
		detector,
		track.New(cfg.Tracker.MaxDisappeared, cfg.Tracker.MaxDistance),
		emotion.NewSampler(classifier, cfg.Labels.Labels),
		sink,
		pipeline.Options{EmotionEvery: cfg.Emotion.Every},
	)
	defer pipe.Close()

	server := web.NewServer(cfg, port, host, pipe)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Face Stream on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
