package dither

import "math"

// Span is a horizontal run of drawn cells on one row sharing a fill color.
type Span struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Fill   string `json:"fill"`
}

// Stats summarizes a scan.
type Stats struct {
	Rows    int // scanlines visited
	Columns int // cells per scanline
	Cells   int // cells evaluated
	Drawn   int // cells that passed the dither test
	Spans   int // spans emitted
}

// CellSample is the evaluation of a single cell.
type CellSample struct {
	Normalized float64
	Color      RGB
	Brightness float64
	Draw       bool
}

// ScanOption configures Scan.
type ScanOption func(*scanner)

// WithSource sets the random source used for brightness noise.
func WithSource(src Source) ScanOption {
	return func(s *scanner) {
		if src != nil {
			s.src = src
		}
	}
}

type scanner struct {
	cfg      Config
	matrix   Matrix
	gradient Gradient
	cx, cy   float64
	maxDist  float64
	src      Source
}

func newScanner(cfg Config, opts ...ScanOption) (*scanner, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := NewMatrix(cfg.Matrix)
	if err != nil {
		return nil, err
	}
	s := &scanner{
		cfg:      cfg,
		matrix:   m,
		gradient: cfg.Gradient(),
		maxDist:  cfg.MaxDistance(),
		src:      DefaultSource,
	}
	s.cx, s.cy = cfg.Center()
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// sample evaluates the cell whose pixel origin is (x, y).
func (s *scanner) sample(x, y int) CellSample {
	dx := float64(x) - s.cx
	dy := float64(y) - s.cy
	t := min(math.Sqrt(dx*dx+dy*dy)/s.maxDist, 1)

	b := Brightness(t, s.cfg.DensityCurve, s.cfg.BrightnessCurve)
	b = Perturb(b, s.cfg.NoiseAmount, s.src)

	size := s.cfg.CellSize
	return CellSample{
		Normalized: t,
		Color:      s.gradient.ColorAt(t),
		Brightness: b,
		Draw:       s.matrix.ShouldDraw(x/size, y/size, b),
	}
}

// Sample evaluates the cell whose pixel origin is (x, y) under cfg.
func Sample(cfg Config, x, y int, opts ...ScanOption) (CellSample, error) {
	s, err := newScanner(cfg, opts...)
	if err != nil {
		return CellSample{}, err
	}
	return s.sample(x, y), nil
}

// run is the per-row span state: either no span is open, or one is open
// starting at start with color fill.
type run struct {
	open  bool
	start int
	fill  string
}

// advance feeds the cell at x into the run. It returns the next state and,
// when the previous span ends here, that span with its X and Width set.
func (r run) advance(x int, draw bool, fill string) (run, Span, bool) {
	switch {
	case !draw:
		if r.open {
			return run{}, r.close(x), true
		}
		return run{}, Span{}, false
	case !r.open:
		return run{open: true, start: x, fill: fill}, Span{}, false
	case r.fill == fill:
		return r, Span{}, false
	default:
		return run{open: true, start: x, fill: fill}, r.close(x), true
	}
}

// finish closes any open span at the row boundary end.
func (r run) finish(end int) (Span, bool) {
	if !r.open {
		return Span{}, false
	}
	return r.close(end), true
}

func (r run) close(end int) Span {
	return Span{X: r.start, Width: end - r.start, Fill: r.fill}
}

// Scan walks cfg's canvas row by row and calls emit for every span, in
// row-major, left-to-right order. Only one row of state is held at a time.
// The config is validated before any span is emitted.
func Scan(cfg Config, emit func(Span), opts ...ScanOption) (Stats, error) {
	s, err := newScanner(cfg, opts...)
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	size := s.cfg.CellSize
	rows, cols := cellCount(s.cfg.Height, size), cellCount(s.cfg.Width, size)
	st.Columns = cols

	for row := 0; row < rows; row++ {
		y := row * size
		st.Rows++
		var cur run
		for col := 0; col < cols; col++ {
			x := col * size
			c := s.sample(x, y)
			st.Cells++
			fill := ""
			if c.Draw {
				st.Drawn++
				fill = c.Color.Hex()
			}
			next, sp, closed := cur.advance(x, c.Draw, fill)
			if closed {
				sp.Y, sp.Height = y, size
				emit(sp)
				st.Spans++
			}
			cur = next
		}
		if sp, ok := cur.finish(s.cfg.Width); ok {
			sp.Y, sp.Height = y, size
			emit(sp)
			st.Spans++
		}
	}
	return st, nil
}

// Spans runs Scan and collects the emitted spans.
func Spans(cfg Config, opts ...ScanOption) ([]Span, Stats, error) {
	var spans []Span
	st, err := Scan(cfg, func(sp Span) { spans = append(spans, sp) }, opts...)
	if err != nil {
		return nil, Stats{}, err
	}
	return spans, st, nil
}

// Grid returns the draw decision for every cell, indexed [row][column].
func Grid(cfg Config, opts ...ScanOption) ([][]bool, error) {
	s, err := newScanner(cfg, opts...)
	if err != nil {
		return nil, err
	}
	size := s.cfg.CellSize
	rows, cols := cellCount(s.cfg.Height, size), cellCount(s.cfg.Width, size)
	grid := make([][]bool, rows)
	for row := range grid {
		grid[row] = make([]bool, cols)
		for col := range grid[row] {
			grid[row][col] = s.sample(col*size, row*size).Draw
		}
	}
	return grid, nil
}

// cellCount returns how many cells of size cover n pixels. n and size
// must be positive; the form avoids overflowing n + size.
func cellCount(n, size int) int {
	return (n-1)/size + 1
}
