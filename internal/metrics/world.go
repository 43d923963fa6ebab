// Package metrics содержит Prometheus-метрики мира и статистику процесса.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tileworld"

// Результаты правок мира
const (
	EditApplied  = "applied"
	EditRejected = "rejected"
)

// WorldMetrics метрики стриминга чанков, мешинга и правок
type WorldMetrics struct {
	reloads       *prometheus.CounterVec
	loadedChunks  prometheus.Gauge
	regions       prometheus.Gauge
	meshDuration  prometheus.Histogram
	meshedRegions prometheus.Counter
	edits         *prometheus.CounterVec
	ticks         prometheus.Counter
	tickDuration  prometheus.Histogram
}

// NewWorldMetrics создаёт метрики и регистрирует их в reg
func NewWorldMetrics(reg prometheus.Registerer) *WorldMetrics {
	m := &WorldMetrics{
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_reloads_total",
			Help:      "Число перезагрузок чанков по видам (full, single).",
		}, []string{"kind"}),
		loadedChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loaded_chunks",
			Help:      "Количество материализованных чанков в окне игрока.",
		}),
		regions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collision_regions",
			Help:      "Количество регионов коллизий в загруженных чанках.",
		}),
		meshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mesh_duration_seconds",
			Help:      "Время построения регионов одного чанка.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		meshedRegions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meshed_regions_total",
			Help:      "Суммарное число построенных регионов.",
		}),
		edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "world_edits_total",
			Help:      "Правки мира по слою и результату.",
		}, []string{"layer", "result"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Число обработанных тиков.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Длительность одного тика.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
	}

	reg.MustRegister(
		m.reloads, m.loadedChunks, m.regions, m.meshDuration,
		m.meshedRegions, m.edits, m.ticks, m.tickDuration,
	)
	return m
}

// ObserveMesh фиксирует построение регионов одного чанка
func (m *WorldMetrics) ObserveMesh(d time.Duration, regions int) {
	m.meshDuration.Observe(d.Seconds())
	m.meshedRegions.Add(float64(regions))
}

// ChunkReloaded считает перезагрузку
func (m *WorldMetrics) ChunkReloaded(kind string) {
	m.reloads.WithLabelValues(kind).Inc()
}

// SetLoaded обновляет размеры окна
func (m *WorldMetrics) SetLoaded(chunks, regions int) {
	m.loadedChunks.Set(float64(chunks))
	m.regions.Set(float64(regions))
}

// ObserveEdit считает правку слоя layer с результатом result
func (m *WorldMetrics) ObserveEdit(layer, result string) {
	m.edits.WithLabelValues(layer, result).Inc()
}

// ObserveTick фиксирует длительность тика
func (m *WorldMetrics) ObserveTick(d time.Duration) {
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
}

// Exporter HTTP-эндпоинт /metrics
type Exporter struct {
	server *http.Server
	done   chan struct{}
}

// StartHTTP запускает эндпоинт Prometheus на addr (например, ":2112").
// Метод неблокирующий: HTTP-сервер стартует в отдельной горутине.
func StartHTTP(addr string, gatherer prometheus.Gatherer) *Exporter {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	e := &Exporter{
		server: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		done:   make(chan struct{}),
	}

	go func() {
		defer close(e.done)
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := e.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	return e
}

// Stop останавливает HTTP-сервер
func (e *Exporter) Stop(ctx context.Context) error {
	err := e.server.Shutdown(ctx)
	<-e.done
	return err
}
