package native

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mikoloy/devicetrust/internal/constants"
)

// Collector runs the detectors and merges their results into a Report.
// A Collector holds no per-scan state and is safe for concurrent use.
type Collector struct {
	logger   zerolog.Logger
	mapsPath string
	fdDir    string
	libc     func() LibcCheck
	parallel bool
}

// Option configures a Collector.
type Option func(*Collector)

// WithMapsPath overrides the memory-map listing scanned by the collector.
func WithMapsPath(path string) Option {
	return func(c *Collector) {
		c.mapsPath = path
	}
}

// WithFdDir overrides the descriptor directory scanned by the collector.
func WithFdDir(dir string) Option {
	return func(c *Collector) {
		c.fdDir = dir
	}
}

// WithLibcResolver overrides the libc export check.
func WithLibcResolver(fn func() LibcCheck) Option {
	return func(c *Collector) {
		c.libc = fn
	}
}

// WithParallel runs the three detectors concurrently and joins them before
// building the report. The result is the same as a sequential run.
func WithParallel(parallel bool) Option {
	return func(c *Collector) {
		c.parallel = parallel
	}
}

// NewCollector creates a collector over the current process's surfaces.
func NewCollector(logger zerolog.Logger, opts ...Option) *Collector {
	c := &Collector{
		logger:   logger.With().Str("component", "native_collector").Logger(),
		mapsPath: constants.SelfMapsPath,
		fdDir:    constants.SelfFdDir,
		libc:     CheckLibcSymbol,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.libc == nil {
		c.libc = CheckLibcSymbol
	}
	return c
}

// Collect runs the detectors once and returns the report. Elapsed time spans
// all three detectors.
func (c *Collector) Collect() Report {
	logger := c.logger.With().Str("scan_id", uuid.NewString()).Logger()

	logger.Debug().
		Str("maps", c.mapsPath).
		Str("fd_dir", c.fdDir).
		Bool("parallel", c.parallel).
		Msg("Collecting native signals")

	var (
		maps    MapsAnalysis
		fdFrida bool
		libc    LibcCheck
	)

	start := time.Now()
	if c.parallel {
		var g errgroup.Group
		g.Go(func() error {
			maps = AnalyzeMaps(c.mapsPath)
			return nil
		})
		g.Go(func() error {
			fdFrida = ScanFdDir(c.fdDir)
			return nil
		})
		g.Go(func() error {
			libc = c.libc()
			return nil
		})
		_ = g.Wait()
	} else {
		maps = AnalyzeMaps(c.mapsPath)
		fdFrida = ScanFdDir(c.fdDir)
		libc = c.libc()
	}
	elapsed := time.Since(start)

	report := NewReport(maps, fdFrida, libc, elapsed)

	logger.Debug().
		Int("rwx_segments", report.RWXSegments).
		Bool("frida_lib_loaded", report.FridaLibLoaded).
		Bool("fd_frida", report.FdFrida).
		Str("libc_getpid_so", report.LibcGetpidSo).
		Bool("libc_getpid_unexpected", report.LibcGetpidUnexpected).
		Strs("suspicious_modules", report.SuspiciousModules).
		Dur("elapsed", elapsed).
		Msg("Native signals collected")

	if e := logger.Trace(); e.Enabled() {
		if data, err := report.JSON(); err == nil {
			e.RawJSON("report", data).Msg("Native signal report")
		}
	}

	return report
}
