package ops

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/compgraph/compgraph/row"
)

// FilterPunctuation deletes ASCII punctuation characters from Col.
type FilterPunctuation struct {
	Col string
}

var asciiPunctuation = func() *strings.Replacer {
	const punct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	pairs := make([]string, 0, 2*len(punct))
	for _, r := range punct {
		pairs = append(pairs, string(r), "")
	}
	return strings.NewReplacer(pairs...)
}()

func (f FilterPunctuation) Map(r row.Row) ([]row.Row, error) {
	v, err := r.Get(f.Col)
	if err != nil {
		return nil, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, errors.Errorf("compgraph: FilterPunctuation column %q is not a string", f.Col)
	}
	out := r.Clone()
	out[f.Col] = asciiPunctuation.Replace(s)
	return []row.Row{out}, nil
}

// LowerCase lower-cases Col.
type LowerCase struct {
	Col string
}

func (l LowerCase) Map(r row.Row) ([]row.Row, error) {
	v, err := r.Get(l.Col)
	if err != nil {
		return nil, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, errors.Errorf("compgraph: LowerCase column %q is not a string", l.Col)
	}
	out := r.Clone()
	out[l.Col] = strings.ToLower(s)
	return []row.Row{out}, nil
}

var defaultSplitPattern = regexp.MustCompile(`[A-Za-z']+`)

// Split tokenizes Col and emits one row per token, each a copy of the
// input row with Col replaced by the token. If Sep is empty, tokens are
// maximal runs matching [A-Za-z']+; otherwise Col is split on Sep
// literally.
type Split struct {
	Col string
	Sep string // optional
}

func (s Split) Map(r row.Row) ([]row.Row, error) {
	v, err := r.Get(s.Col)
	if err != nil {
		return nil, err
	}
	text, ok := v.(string)
	if !ok {
		return nil, errors.Errorf("compgraph: Split column %q is not a string", s.Col)
	}

	var tokens []string
	if s.Sep == "" {
		tokens = defaultSplitPattern.FindAllString(text, -1)
	} else {
		tokens = strings.Split(text, s.Sep)
	}

	out := make([]row.Row, 0, len(tokens))
	for _, tok := range tokens {
		nr := r.Clone()
		nr[s.Col] = tok
		out = append(out, nr)
	}
	return out, nil
}

// Product writes the numeric product of Cols to Result.
type Product struct {
	Cols   []string
	Result string
}

func (p Product) Map(r row.Row) ([]row.Row, error) {
	result := 1.0
	for _, c := range p.Cols {
		v, err := r.Get(c)
		if err != nil {
			return nil, err
		}
		f, err := row.AsFloat(v)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", c)
		}
		result *= f
	}
	out := r.Clone()
	out[p.Result] = result
	return []row.Row{out}, nil
}

// Filter emits the row iff Pred(row) is true.
type Filter struct {
	Pred func(row.Row) bool
}

func (f Filter) Map(r row.Row) ([]row.Row, error) {
	if f.Pred(r) {
		return []row.Row{r}, nil
	}
	return nil, nil
}

// Project emits a new row containing exactly Cols, in order.
type Project struct {
	Cols []string
}

func (p Project) Map(r row.Row) ([]row.Row, error) {
	out := make(row.Row, len(p.Cols))
	for _, c := range p.Cols {
		v, err := r.Get(c)
		if err != nil {
			return nil, err
		}
		out[c] = v
	}
	return []row.Row{out}, nil
}

// Function replaces Col with Fn(col value).
type Function struct {
	Col string
	Fn  func(any) (any, error)
}

func (f Function) Map(r row.Row) ([]row.Row, error) {
	v, err := r.Get(f.Col)
	if err != nil {
		return nil, err
	}
	nv, err := f.Fn(v)
	if err != nil {
		return nil, errors.Wrapf(err, "column %q", f.Col)
	}
	out := r.Clone()
	out[f.Col] = nv
	return []row.Row{out}, nil
}

// earthRadiusKM is the radius used for HaversineDistance, matching the
// original yandex_maps_graph implementation.
const earthRadiusKM = 6373.0

// HaversineDistance computes the great-circle distance in kilometers
// between the [lon, lat] coordinate pairs in Start and End, writing the
// result to Result.
type HaversineDistance struct {
	Start, End, Result string
}

func (h HaversineDistance) Map(r row.Row) ([]row.Row, error) {
	start, err := coordPair(r, h.Start)
	if err != nil {
		return nil, err
	}
	end, err := coordPair(r, h.End)
	if err != nil {
		return nil, err
	}
	lon1, lat1 := start[0]*math.Pi/180, start[1]*math.Pi/180
	lon2, lat2 := end[0]*math.Pi/180, end[1]*math.Pi/180
	dist := earthRadiusKM * math.Acos(math.Sin(lat1)*math.Sin(lat2)+math.Cos(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1))
	out := r.Clone()
	out[h.Result] = dist
	return []row.Row{out}, nil
}

func coordPair(r row.Row, col string) ([]float64, error) {
	v, err := r.Get(col)
	if err != nil {
		return nil, err
	}
	coords, ok := v.([]float64)
	if !ok || len(coords) != 2 {
		return nil, errors.Errorf("compgraph: column %q is not a [lon, lat] coordinate pair", col)
	}
	return coords, nil
}

var timeLayouts = []string{"20060102T150405.000000", "20060102T150405"}

func parseRowTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, errors.Wrapf(lastErr, "compgraph: cannot parse timestamp %q", s)
}

// Date extracts the abbreviated weekday name and the hour-of-day from
// EnterTimeCol (formatted like "20171027T082557.571000"), writing them to
// WeekdayResult and HourResult.
type Date struct {
	EnterTimeCol  string
	WeekdayResult string
	HourResult    string
}

func (d Date) Map(r row.Row) ([]row.Row, error) {
	v, err := r.Get(d.EnterTimeCol)
	if err != nil {
		return nil, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, errors.Errorf("compgraph: Date column %q is not a string", d.EnterTimeCol)
	}
	t, err := parseRowTime(s)
	if err != nil {
		return nil, err
	}
	out := r.Clone()
	out[d.WeekdayResult] = t.Weekday().String()[:3]
	out[d.HourResult] = t.Hour()
	return []row.Row{out}, nil
}
