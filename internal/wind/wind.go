// Package wind fetches 10 m wind vectors from an ERDDAP griddap dataset and
// converts them into the grid form leaflet-velocity consumes.
package wind

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	uComponent = "ugrd10m"
	vComponent = "vgrd10m"
)

// Header follows the GRIB2-derived header leaflet-velocity reads.
type Header struct {
	ParameterCategory   int     `json:"parameterCategory"`
	ParameterNumber     int     `json:"parameterNumber"`
	ParameterNumberName string  `json:"parameterNumberName"`
	ParameterUnit       string  `json:"parameterUnit"`
	Nx                  int     `json:"nx"`
	Ny                  int     `json:"ny"`
	Lo1                 float64 `json:"lo1"`
	La1                 float64 `json:"la1"`
	Lo2                 float64 `json:"lo2"`
	La2                 float64 `json:"la2"`
	Dx                  float64 `json:"dx"`
	Dy                  float64 `json:"dy"`
	RefTime             string  `json:"refTime"`
}

type Record struct {
	Header Header    `json:"header"`
	Data   []float64 `json:"data"`
}

// Field holds the U record followed by the V record.
type Field []Record

type getter interface {
	Get(ctx context.Context, url, accept string) ([]byte, error)
}

type Client struct {
	client  getter
	baseURL string
	dataset string
	stride  int
	clock   clockwork.Clock
}

type Option func(*Client)

func WithClock(c clockwork.Clock) Option {
	return func(cl *Client) { cl.clock = c }
}

// NewClient targets dataset on the ERDDAP server at baseURL, sampling every
// stride-th grid point.
func NewClient(client getter, baseURL, dataset string, stride int, opts ...Option) *Client {
	if stride < 1 {
		stride = 1
	}
	c := &Client{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		dataset: dataset,
		stride:  stride,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL requests both components over the whole grid at the time step closest
// to now. ERDDAP snaps a parenthesized time value to the nearest step, so a
// forecast dataset yields its current hour rather than its last one.
func (c *Client) URL() string {
	now := c.clock.Now().UTC().Format(time.RFC3339)
	dims := fmt.Sprintf("[(%s)][0:%d:last][0:%d:last]", now, c.stride, c.stride)
	query := uComponent + dims + "," + vComponent + dims
	return fmt.Sprintf("%s/griddap/%s.json?%s", c.baseURL, c.dataset, url.QueryEscape(query))
}

func (c *Client) Fetch(ctx context.Context) (Field, error) {
	body, err := c.client.Get(ctx, c.URL(), "application/json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wind vectors: %w", err)
	}
	return Decode(body)
}

type erddapTable struct {
	Table struct {
		ColumnNames []string `json:"columnNames"`
		Rows        [][]any  `json:"rows"`
	} `json:"table"`
}

type point struct{ lat, lon float64 }

// Decode converts an ERDDAP griddap JSON table into a Field. Rows are laid out
// north to south and west to east. Missing values become 0.
func Decode(body []byte) (Field, error) {
	var t erddapTable
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, fmt.Errorf("failed to parse ERDDAP JSON: %w", err)
	}

	cols := make(map[string]int)
	for i, name := range t.Table.ColumnNames {
		cols[name] = i
	}
	for _, name := range []string{"latitude", "longitude", uComponent, vComponent} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("ERDDAP table has no %s column", name)
		}
	}
	if len(t.Table.Rows) == 0 {
		return nil, fmt.Errorf("ERDDAP table has no rows")
	}

	refTime := ""
	if i, ok := cols["time"]; ok {
		if row := t.Table.Rows[0]; i < len(row) {
			refTime, _ = row[i].(string)
		}
	}

	latSet := make(map[float64]bool)
	lonSet := make(map[float64]bool)
	u := make(map[point]float64)
	v := make(map[point]float64)

	for _, row := range t.Table.Rows {
		lat, ok1 := number(row, cols["latitude"])
		lon, ok2 := number(row, cols["longitude"])
		if !ok1 || !ok2 {
			continue
		}
		latSet[lat] = true
		lonSet[lon] = true
		p := point{lat, lon}
		u[p], _ = number(row, cols[uComponent])
		v[p], _ = number(row, cols[vComponent])
	}

	if len(latSet) == 0 || len(lonSet) == 0 {
		return nil, fmt.Errorf("ERDDAP table has no grid coordinates")
	}

	lats := sortedKeys(latSet)
	sort.Sort(sort.Reverse(sort.Float64Slice(lats)))
	lons := sortedKeys(lonSet)

	header := Header{
		ParameterCategory: 2,
		ParameterUnit:     "m.s-1",
		Nx:                len(lons),
		Ny:                len(lats),
		Lo1:               lons[0],
		La1:               lats[0],
		Lo2:               lons[len(lons)-1],
		La2:               lats[len(lats)-1],
		Dx:                spacing(lons),
		Dy:                spacing(lats),
		RefTime:           refTime,
	}

	uh, vh := header, header
	uh.ParameterNumber, uh.ParameterNumberName = 2, "eastward_wind"
	vh.ParameterNumber, vh.ParameterNumberName = 3, "northward_wind"

	return Field{
		{Header: uh, Data: grid(lats, lons, u)},
		{Header: vh, Data: grid(lats, lons, v)},
	}, nil
}

func number(row []any, i int) (float64, bool) {
	if i >= len(row) {
		return 0, false
	}
	f, ok := row[i].(float64)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func sortedKeys(set map[float64]bool) []float64 {
	out := make([]float64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Float64s(out)
	return out
}

func spacing(axis []float64) float64 {
	if len(axis) < 2 {
		return 0
	}
	return math.Abs(axis[1] - axis[0])
}

func grid(lats, lons []float64, values map[point]float64) []float64 {
	data := make([]float64, 0, len(lats)*len(lons))
	for _, lat := range lats {
		for _, lon := range lons {
			data = append(data, values[point{lat, lon}])
		}
	}
	return data
}
