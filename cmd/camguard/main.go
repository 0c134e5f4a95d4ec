package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/camguard/internal/bus"
	"github.com/your-org/camguard/internal/camera"
	"github.com/your-org/camguard/internal/config"
	"github.com/your-org/camguard/internal/episode"
	"github.com/your-org/camguard/internal/geometry"
	"github.com/your-org/camguard/internal/imaging"
	"github.com/your-org/camguard/internal/model"
	"github.com/your-org/camguard/internal/observability"
	"github.com/your-org/camguard/internal/payload"
	"github.com/your-org/camguard/internal/storage"
	"github.com/your-org/camguard/internal/topk"
)

// Config file locations are fixed per spec.md §6 ("one executable... No
// flags"); CAMGUARD_CONFIG_PATH/CAMGUARD_PLUGIN_CONFIG_PATH env vars exist
// for deployment flexibility without introducing a CLI flag.
const (
	defaultConfigPath       = "configs/config.yaml"
	defaultPluginConfigPath = "/etc/camguard/plugin.conf"
)

func main() {
	configPath := envOrDefault("CAMGUARD_CONFIG_PATH", defaultConfigPath)
	pluginConfigPath := envOrDefault("CAMGUARD_PLUGIN_CONFIG_PATH", defaultPluginConfigPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	pluginCfg, err := config.LoadPlugin(pluginConfigPath)
	if err != nil {
		slog.Warn("load plugin config, using defaults", "error", err)
	}
	slog.Info("plugin config", "fields", pluginCfg.LogFields())

	slog.Info("starting camguard",
		"buffer_id", cfg.Camera.BufferID,
		"cpu_cores", runtime.NumCPU(),
	)

	ort.SetSharedLibraryPath(onnxLibPath())
	if err := ort.InitializeEnvironment(); err != nil {
		slog.Error("init onnx runtime", "error", err)
		os.Exit(1)
	}
	defer ort.DestroyEnvironment()

	personFormat := model.TensorFormat{InputW: 224, InputH: 224, Channels: 3, Scale: 0.0078125, ZeroPoint: 128, LBound: 0, UBound: 255}
	deliveryFormat := model.TensorFormat{InputW: 224, InputH: 224, Channels: 3, Scale: 0.0078125, ZeroPoint: 128, LBound: 0, UBound: 255}

	personRunner, err := model.NewONNXRunner(cfg.Models.PersonModelPath, personFormat, 10, model.ClassPerson, nil)
	if err != nil {
		slog.Error("load person model", "error", err)
		os.Exit(1)
	}
	defer personRunner.Close()

	deliveryRunner, err := model.NewONNXRunner(cfg.Models.DeliveryModelPath, deliveryFormat, 10, model.ClassDelivery, nil)
	if err != nil {
		slog.Error("load delivery model", "error", err)
		os.Exit(1)
	}
	defer deliveryRunner.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frameSource, err := camera.NewFFmpegSource(ctx, cfg.Camera.URL, cfg.Camera.Width, cfg.Camera.Height)
	if err != nil {
		slog.Error("start camera source", "error", err)
		os.Exit(1)
	}
	defer frameSource.Close()

	busClient, err := bus.Connect(cfg.Bus.URL)
	if err != nil {
		slog.Error("connect to bus", "error", err)
		os.Exit(1)
	}
	defer busClient.Close()

	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}
	if minioStore != nil {
		if err := minioStore.EnsureBucket(ctx); err != nil {
			slog.Error("ensure minio bucket", "error", err)
		}
	}

	buffer := topk.New(cfg.Models.TopKCapacity)
	notify := make(chan struct{}, 1)

	// The configured ROI polygon only gates the prediction filter (C5) when
	// DOI is enabled; otherwise every detector box passes the ROI check, per
	// spec.md §3's "DOI an implicit camera-defined region" — with DOI off
	// there's no region to restrict detections to.
	var roi geometry.ROI
	if cfg.Episode.DOI {
		roi = toROI(cfg.Episode.ROI)
	}

	var finalizeMu sync.Mutex
	var pendingDelivery bool

	controller := episode.New(
		episode.Config{QuietInterval: cfg.Episode.QuietInterval},
		true,
		notify,
		func(p episode.Payload) {
			finalizeMu.Lock()
			p.DeliveryDetected = pendingDelivery
			finalizeMu.Unlock()
			observability.EpisodesFinalized.WithLabelValues(boolLabel(p.DeliveryDetected)).Inc()
			slog.Info("episode finalized", "episode_id", p.EpisodeID, "file", p.FileName, "delivery_detected", p.DeliveryDetected)
		},
	)

	classifier := episode.NewClassifier(
		controller,
		personRunner,
		deliveryRunner,
		buffer,
		episode.ClassifierConfig{
			PersonThreshold:   float32(cfg.Models.PersonThreshold),
			DeliveryThreshold: float32(cfg.Models.DeliveryThreshold),
			ROI:               roi,
		},
		notify,
		func(detected bool) {
			finalizeMu.Lock()
			pendingDelivery = detected
			finalizeMu.Unlock()
			observability.TopKOccupancy.Set(0)
		},
	)

	shutdown := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		classifier.Run(shutdown)
	}()

	adapter := &dispatchAdapter{
		ctx:        ctx,
		source:     frameSource,
		controller: controller,
		minio:      minioStore,
		debugDir:   cfg.Episode.DebugDumpDir,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		busClient.Run(shutdown, adapter)
	}()

	if err := busClient.PublishStatus("start"); err != nil {
		slog.Warn("publish start status", "error", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if minioStore != nil {
			if err := minioStore.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded","error":"minio unreachable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	go func() {
		slog.Info("metrics listening", "addr", cfg.Metrics.Addr)
		if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
			slog.Error("metrics server error", "error", err)
		}
	}()

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cached, processed := controller.Counters()
				observability.CachedFrames.Set(float64(cached))
				observability.ProcessedFrames.Set(float64(processed))
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down camguard...")
	if err := busClient.PublishStatus("stop"); err != nil {
		slog.Warn("publish stop status", "error", err)
	}

	close(shutdown)
	cancel()
	wg.Wait()
	slog.Info("camguard stopped")
}

// dispatchAdapter bridges bus.Dispatcher's decoded bus calls to the frame
// source, episode controller, and payload assembler.
type dispatchAdapter struct {
	ctx        context.Context
	source     camera.Source
	controller *episode.Controller
	minio      *storage.MinIOStore
	debugDir   string
}

func (a *dispatchAdapter) Capture(pts int64) {
	frame, err := a.source.Capture(a.ctx)
	if err != nil {
		observability.BusDispatchErrors.WithLabelValues(bus.SubjectCapture).Inc()
		slog.Warn("capture frame failed", "error", err)
		return
	}
	frame.PTS = pts
	observability.FramesCaptured.Inc()
	a.controller.Capture(frame)
}

func (a *dispatchAdapter) MotionEvent(e episode.MotionEvent) {
	a.controller.MotionEvent(e)
}

func (a *dispatchAdapter) ClipStart(name string) {
	a.controller.ClipStart(name)
}

func (a *dispatchAdapter) ClipEnd(name string) {
	a.controller.ClipEnd(name, func(ef episode.EpisodeFrame) (episode.Payload, error) {
		fileName := fmt.Sprintf("/tmp/%s.jpeg", name)
		p, jpegBytes, err := payload.Assemble(ef, fileName)
		if err != nil {
			return episode.Payload{}, err
		}
		if err := os.WriteFile(fileName, jpegBytes, 0o644); err != nil {
			return episode.Payload{}, fmt.Errorf("write thumbnail: %w", err)
		}
		if a.minio != nil {
			if err := a.minio.PutThumbnail(a.ctx, name, jpegBytes); err != nil {
				slog.Warn("mirror thumbnail to minio", "error", err)
			}
		}
		a.dumpDebugImages(ef, jpegBytes)
		return p, nil
	})
}

// dumpDebugImages writes raw and transformed buffer JPEGs under
// /opt/image_{epoch_ms}.jpg when the debug switch file is present, per
// spec.md §6. The switch is presence-only: the file's content is never read.
func (a *dispatchAdapter) dumpDebugImages(ef episode.EpisodeFrame, transformedJPEG []byte) {
	if _, err := os.Stat(a.debugDir); err != nil {
		return
	}

	rawRGB := imaging.YUVToRGB(ef.Frame.Y, ef.Frame.UV, ef.Frame.W, ef.Frame.H)
	rawJPEG, err := imaging.EncodeJPEG(rawRGB, 95)
	if err != nil {
		slog.Warn("encode raw debug dump", "error", err)
		return
	}
	// Both dumps are named from one timestamp, one millisecond apart, so the
	// transformed dump cannot overwrite the raw one.
	ms := time.Now().UnixMilli()
	a.writeDebugDump(rawJPEG, ms)
	a.writeDebugDump(transformedJPEG, ms+1)
}

func (a *dispatchAdapter) writeDebugDump(data []byte, epochMs int64) {
	name := fmt.Sprintf("image_%d.jpg", epochMs)
	path := filepath.Join("/opt", name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Warn("write debug dump", "path", path, "error", err)
		return
	}
	if a.minio != nil {
		if err := a.minio.PutDebugDump(a.ctx, name, data); err != nil {
			slog.Warn("mirror debug dump to minio", "error", err)
		}
	}
}

func toROI(points []config.Point) geometry.ROI {
	if len(points) == 0 {
		return nil
	}
	roi := make(geometry.ROI, 0, len(points))
	for _, p := range points {
		roi = append(roi, geometry.Point{X: float32(p.X), Y: float32(p.Y)})
	}
	return roi
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func onnxLibPath() string {
	switch runtime.GOOS {
	case "windows":
		return "onnxruntime.dll"
	case "darwin":
		return "libonnxruntime.dylib"
	default:
		return "libonnxruntime.so"
	}
}
