// Package diagnostics reports whether the introspection surfaces the native
// detectors rely on are usable on this host.
package diagnostics

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/mikoloy/devicetrust/internal/constants"
	"github.com/mikoloy/devicetrust/internal/native"
)

// Status of a single check.
type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
	StatusMismatch    Status = "mismatch"
	StatusInfo        Status = "info"
)

// Check is one line of a diagnosis.
type Check struct {
	Name   string `header:"CHECK" json:"name" yaml:"name"`
	Status Status `header:"STATUS" json:"status" yaml:"status"`
	Detail string `header:"DETAIL" json:"detail" yaml:"detail"`
}

// Platform describes the host the collector runs on.
type Platform struct {
	OS              string `json:"os" yaml:"os"`
	Arch            string `json:"arch" yaml:"arch"`
	Platform        string `json:"platform,omitempty" yaml:"platform,omitempty"`
	PlatformVersion string `json:"platformVersion,omitempty" yaml:"platformVersion,omitempty"`
	KernelVersion   string `json:"kernelVersion,omitempty" yaml:"kernelVersion,omitempty"`
	Process         string `json:"process,omitempty" yaml:"process,omitempty"`
	PID             int32  `json:"pid" yaml:"pid"`
}

// Diagnosis is the result of Detect.
type Diagnosis struct {
	Platform    Platform `json:"platform" yaml:"platform"`
	LibcBackend string   `json:"libcBackend" yaml:"libcBackend"`
	Checks      []Check  `json:"checks" yaml:"checks"`
}

// Healthy reports whether every surface check passed.
func (d Diagnosis) Healthy() bool {
	for _, c := range d.Checks {
		if c.Status == StatusUnavailable || c.Status == StatusMismatch {
			return false
		}
	}
	return true
}

// Detector runs the diagnosis.
type Detector struct {
	logger   zerolog.Logger
	mapsPath string
	fdDir    string
	pid      int32
	libc     func() native.LibcCheck
	resolve  func(mapsPath, name string) (string, bool)
}

// NewDetector creates a detector for the current process.
func NewDetector(logger zerolog.Logger, pid int32) *Detector {
	return &Detector{
		logger:   logger.With().Str("component", "diagnostics").Logger(),
		mapsPath: constants.SelfMapsPath,
		fdDir:    constants.SelfFdDir,
		pid:      pid,
		libc:     native.CheckLibcSymbol,
		resolve:  native.ResolveExportFromMaps,
	}
}

// Detect checks each surface and gathers platform information.
func (d *Detector) Detect() Diagnosis {
	diag := Diagnosis{
		Platform:    d.detectPlatform(),
		LibcBackend: native.LibcBackend(),
	}

	diag.Checks = append(diag.Checks,
		d.checkReadable("maps", d.mapsPath, false),
		d.checkReadable("fd", d.fdDir, true),
		d.checkLibc(diag.LibcBackend),
	)

	for _, c := range diag.Checks {
		d.logger.Debug().
			Str("check", c.Name).
			Str("status", string(c.Status)).
			Str("detail", c.Detail).
			Msg("Diagnostic check")
	}

	return diag
}

func (d *Detector) detectPlatform() Platform {
	p := Platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
		PID:  d.pid,
	}

	if info, err := host.Info(); err == nil {
		p.Platform = info.Platform
		p.PlatformVersion = info.PlatformVersion
		p.KernelVersion = info.KernelVersion
	} else {
		d.logger.Debug().Err(err).Msg("Host info unavailable")
	}

	if proc, err := process.NewProcess(d.pid); err == nil {
		if name, err := proc.Name(); err == nil {
			p.Process = name
		}
	} else {
		d.logger.Debug().Err(err).Int32("pid", d.pid).Msg("Process info unavailable")
	}

	d.logger.Debug().
		Str("os", p.OS).
		Str("arch", p.Arch).
		Str("platform", p.Platform).
		Str("kernel", p.KernelVersion).
		Msg("Platform detected")

	return p
}

func (d *Detector) checkReadable(name, path string, dir bool) Check {
	if err := accessible(path, dir); err != nil {
		return Check{Name: name, Status: StatusUnavailable, Detail: err.Error()}
	}
	return Check{Name: name, Status: StatusOK, Detail: path}
}

// checkLibc resolves getpid through the active backend and, where the maps
// surface is available, cross-checks it against a dynsym lookup.
func (d *Detector) checkLibc(backend string) Check {
	if backend == "unsupported" {
		return Check{Name: "libc", Status: StatusUnavailable, Detail: "no symbol resolver on " + runtime.GOOS}
	}

	libc := d.libc()
	if libc.SoPath == "" {
		return Check{Name: "libc", Status: StatusUnavailable, Detail: "getpid owner not resolved"}
	}

	check := Check{Name: "libc", Status: StatusOK, Detail: libc.SoPath}
	if libc.Unexpected {
		check.Status = StatusInfo
		check.Detail += " (outside expected system paths)"
	}

	if other, ok := d.resolve(d.mapsPath, "getpid"); ok && !sameFile(libc.SoPath, other) {
		check.Status = StatusMismatch
		check.Detail = libc.SoPath + " != " + other
	}

	return check
}

// sameFile reports whether a and b name the same file. dladdr returns the path
// the loader opened while maps shows the resolved one, so /lib and /usr/lib
// spellings of one library must compare equal.
func sameFile(a, b string) bool {
	if a == b {
		return true
	}

	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
