// Package export turns the current ticket into a print-ready PNG whose pixel
// width matches a physical size at a target DPI, with that DPI recorded in
// the file.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/charlelisefouasse/concert-tickets/internal/config"
	"github.com/charlelisefouasse/concert-tickets/internal/model"
	"github.com/charlelisefouasse/concert-tickets/internal/monitoring"
	"github.com/charlelisefouasse/concert-tickets/internal/queue"
	"github.com/charlelisefouasse/concert-tickets/internal/render"
)

var (
	ErrBusy           = errors.New("export: another export is in progress")
	ErrTargetMissing  = errors.New("export: nothing to rasterize")
	ErrInvalidOptions = errors.New("export: invalid options")
)

const defaultMaxDPI = 1200

// Rasterizer draws a ticket view at an exact pixel width.
type Rasterizer interface {
	Render(v render.View, widthPx int) (*image.NRGBA, error)
}

// Publisher announces finished exports.
type Publisher interface {
	PublishTicketExported(ctx context.Context, ev queue.TicketExportedEvent) error
}

// Options carries the per-request inputs.  MeasuredWidth is the on-screen
// CSS pixel width of the ticket; zero means the unzoomed layout width.  DPI
// zero means the configured default.
type Options struct {
	MeasuredWidth float64 `json:"measured_width"`
	DPI           int     `json:"dpi"`
}

// Artifact is a finished export.
type Artifact struct {
	ID         string
	Filename   string
	Data       []byte
	DPI        int
	WidthPx    int
	HeightPx   int
	PixelRatio float64
}

// Pipeline runs exports one at a time.
type Pipeline struct {
	raster Rasterizer
	pub    Publisher
	cfg    config.ExportConfig
	log    logrus.FieldLogger
	busy   atomic.Bool
	now    func() time.Time
}

// NewPipeline builds a pipeline.  pub may be nil when export events are
// disabled.
func NewPipeline(raster Rasterizer, cfg config.ExportConfig, pub Publisher, log logrus.FieldLogger) *Pipeline {
	if cfg.WidthMM <= 0 {
		cfg.WidthMM = render.WidthMM
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MaxDPI <= 0 {
		cfg.MaxDPI = defaultMaxDPI
	}
	if cfg.MaxDPI < cfg.DPI {
		cfg.MaxDPI = cfg.DPI
	}
	return &Pipeline{raster: raster, pub: pub, cfg: cfg, log: log.WithField("component", "export"), now: time.Now}
}

// Busy reports whether an export is running.
func (p *Pipeline) Busy() bool { return p.busy.Load() }

// Export renders t and stamps its density.  A call made while another export
// is running fails with ErrBusy and has no effect.  Options outside the
// configured limits fail with ErrInvalidOptions before anything is drawn.
// On any failure no artifact is produced and nothing is retried.
//
// The busy flag is released before the export event is published, so a slow
// broker does not block the next export.
func (p *Pipeline) Export(ctx context.Context, t model.TicketData, opts Options) (*Artifact, error) {
	if err := p.validate(opts); err != nil {
		monitoring.TrackExport("invalid", 0)
		return nil, err
	}
	art, err := p.exclusive(t, opts)
	if err != nil {
		return nil, err
	}
	p.announce(ctx, t, art)
	return art, nil
}

func (p *Pipeline) validate(opts Options) error {
	if opts.DPI < 0 || opts.MeasuredWidth < 0 {
		return fmt.Errorf("%w: dpi and measured_width must not be negative", ErrInvalidOptions)
	}
	if opts.DPI > p.cfg.MaxDPI {
		return fmt.Errorf("%w: dpi %d is above the %d limit", ErrInvalidOptions, opts.DPI, p.cfg.MaxDPI)
	}
	return nil
}

func (p *Pipeline) exclusive(t model.TicketData, opts Options) (*Artifact, error) {
	if !p.busy.CompareAndSwap(false, true) {
		monitoring.TrackExport("busy", 0)
		return nil, ErrBusy
	}
	defer p.busy.Store(false)

	start := p.now()
	art, err := p.run(t, opts)
	if err != nil {
		monitoring.TrackExport("failed", 0)
		p.log.WithError(err).Error("export failed")
		return nil, err
	}
	monitoring.TrackExport("ok", p.now().Sub(start))
	p.log.WithFields(logrus.Fields{
		"file":  art.Filename,
		"width": art.WidthPx,
		"dpi":   art.DPI,
		"bytes": len(art.Data),
	}).Info("ticket exported")
	return art, nil
}

func (p *Pipeline) run(t model.TicketData, opts Options) (*Artifact, error) {
	if p.raster == nil {
		return nil, ErrTargetMissing
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = p.cfg.DPI
	}
	measured := opts.MeasuredWidth
	if measured <= 0 {
		measured = p.cfg.WidthMM * render.CSSPixelsPerMM
	}
	ratio := PixelRatio(p.cfg.WidthMM, dpi, measured)
	width := OutputWidth(measured, ratio)

	img, err := p.raster.Render(render.NewView(t), width)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	var raw bytes.Buffer
	if err := imaging.Encode(&raw, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode raster: %w", err)
	}
	data, err := WithDensity(raw.Bytes(), dpi)
	if err != nil {
		return nil, fmt.Errorf("stamp density: %w", err)
	}
	return &Artifact{
		ID:         uuid.NewString(),
		Filename:   Filename(t),
		Data:       data,
		DPI:        dpi,
		WidthPx:    img.Bounds().Dx(),
		HeightPx:   img.Bounds().Dy(),
		PixelRatio: ratio,
	}, nil
}

func (p *Pipeline) announce(ctx context.Context, t model.TicketData, art *Artifact) {
	if p.pub == nil {
		return
	}
	ev := queue.TicketExportedEvent{
		ExportID:   art.ID,
		Artist:     t.Artist,
		Venue:      t.Venue,
		City:       t.City,
		Date:       render.DateLabel(t.Date),
		Filename:   art.Filename,
		DPI:        art.DPI,
		WidthPx:    art.WidthPx,
		HeightPx:   art.HeightPx,
		Bytes:      len(art.Data),
		ExportedAt: p.now().UTC().Format(time.RFC3339),
	}
	if err := p.pub.PublishTicketExported(ctx, ev); err != nil {
		p.log.WithError(err).Warn("publish export event failed")
	}
}
