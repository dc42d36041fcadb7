// Package grib decodes NDFD GRIB2 element files into raw forecast bundles.
package grib

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/sdifrance/gogrib2"
)

// missingValue is the smallest value NDFD uses as a no-data sentinel.
const missingValue = 9999

// periodSpan is the length of an NDFD daily max/min period ending at the
// message's verification time.
const periodSpan = 12 * time.Hour

var errNoMessages = errors.New("no grib2 messages")

// gribNames maps NDFD GRIB2 parameter short names to elements.
var gribNames = map[string]domain.Element{
	"MAXRH": domain.ElementMaxRH,
	"MINRH": domain.ElementMinRH,
	"TMAX":  domain.ElementMaxT,
	"TMIN":  domain.ElementMinT,
}

// Parser turns GRIB2 bytes into a domain.RawBundle.
type Parser struct {
	logger *slog.Logger
	stride int
	decode func([]byte) ([]gogrib2.GRIB2, error)
}

// NewParser creates a parser that keeps every stride-th grid point as a
// sample annotation.
func NewParser(logger *slog.Logger, stride int) *Parser {
	if stride <= 0 {
		stride = 1
	}
	return &Parser{logger: logger, stride: stride, decode: gogrib2.Read}
}

// Parse decodes files, orders their messages by verification time and
// builds one raw period per message. A leading period that has already
// ended is dropped.
func (p *Parser) Parse(element domain.Element, files [][]byte) (domain.RawBundle, error) {
	var msgs []gogrib2.GRIB2
	for i, data := range files {
		decoded, err := p.decode(data)
		if err != nil {
			return domain.RawBundle{}, fmt.Errorf("decode %s file %d: %w", element, i+1, err)
		}
		msgs = append(msgs, decoded...)
	}
	return p.bundle(element, msgs)
}

func (p *Parser) bundle(element domain.Element, msgs []gogrib2.GRIB2) (domain.RawBundle, error) {
	if len(msgs) == 0 {
		return domain.RawBundle{}, fmt.Errorf("%s: %w", element, errNoMessages)
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].VerfTime.Before(msgs[j].VerfTime)
	})

	out := domain.RawBundle{Element: element, Unit: element.Unit()}
	var last time.Time
	for _, m := range msgs {
		if e, ok := gribNames[m.Name]; ok && e != element {
			return domain.RawBundle{}, fmt.Errorf("%s message valid %s in %s data: %w",
				m.Name, m.VerfTime.UTC().Format(time.RFC3339), element, domain.ErrElementMismatch)
		}
		if !last.IsZero() && m.VerfTime.Equal(last) {
			p.logger.Debug("duplicate grib2 message skipped", "element", element, "valid", m.VerfTime)
			continue
		}
		last = m.VerfTime

		period, err := p.period(element, m)
		if err != nil {
			return domain.RawBundle{}, err
		}
		out.Periods = append(out.Periods, period)
	}

	now := domain.Now()
	if len(out.Periods) > 0 && !out.Periods[0].End.After(now) {
		p.logger.Info("discarding elapsed first period",
			"element", element,
			"end", out.Periods[0].End,
		)
		out.Periods = out.Periods[1:]
	}
	return out, nil
}

func (p *Parser) period(element domain.Element, m gogrib2.GRIB2) (domain.RawPeriod, error) {
	grid, err := gridFromValues(m.Values)
	if err != nil {
		return domain.RawPeriod{}, fmt.Errorf("%s valid %s: %w", element, m.VerfTime.UTC().Format(time.RFC3339), err)
	}
	end := m.VerfTime.UTC()
	return domain.RawPeriod{
		Grid:    grid,
		Start:   end.Add(-periodSpan),
		End:     end,
		Samples: p.samples(element, m.Name, grid),
	}, nil
}

// samples keeps every stride-th finite grid point. The value column is named
// after the element when the GRIB name is recognised.
func (p *Parser) samples(element domain.Element, gribName string, g *domain.Grid) *domain.SampleTable {
	column := domain.ColumnUnnamed
	if _, ok := gribNames[gribName]; ok {
		column = string(element)
	}
	t := &domain.SampleTable{
		Columns: []string{domain.ColumnLongitude, domain.ColumnLatitude, column},
	}
	for i := 0; i < len(g.Values); i += p.stride {
		v := g.Values[i]
		if math.IsNaN(v) {
			continue
		}
		t.Rows = append(t.Rows, []float64{g.Lon[i], g.Lat[i], v})
	}
	return t
}

// gridFromValues shapes a flat GRIB2 value list into a grid. The column
// count is the length of the first run of points sharing a latitude.
func gridFromValues(values []gogrib2.Value) (*domain.Grid, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("empty message: %w", domain.ErrShapeMismatch)
	}
	cols := 1
	for cols < len(values) && values[cols].Latitude == values[0].Latitude {
		cols++
	}
	if len(values)%cols != 0 {
		return nil, fmt.Errorf("%d points do not fill rows of %d: %w", len(values), cols, domain.ErrShapeMismatch)
	}

	data := make([]float64, len(values))
	lat := make([]float64, len(values))
	lon := make([]float64, len(values))
	for i, v := range values {
		data[i] = cellValue(v.Value)
		lat[i] = v.Latitude
		lon[i] = normalizeLon(v.Longitude)
	}
	g, err := domain.NewGrid(len(values)/cols, cols, data)
	if err != nil {
		return nil, err
	}
	g.Lat = lat
	g.Lon = lon
	return g, nil
}

func cellValue(v float32) float64 {
	f := float64(v)
	if math.IsNaN(f) || f >= missingValue {
		return math.NaN()
	}
	return f
}

// normalizeLon maps 0..360 longitudes into -180..180.
func normalizeLon(lon float64) float64 {
	if lon > 180 {
		return lon - 360
	}
	return lon
}
