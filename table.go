package shamir

import (
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.com/yawning/shamir-voi/internal/disalloweq"
)

// MaxWindowWidth is the largest supported window width, giving a
// table with 2^16 entries.
const MaxWindowWidth = 8

// ErrInvalidWindowWidth is the error returned when the window width is
// out of range, or does not evenly divide ScalarBits.
var ErrInvalidWindowWidth = errors.New("shamir: invalid window width")

// Table is a combined precomputation table for `a * P + b * Q`, with
// `w`-bit windows.  Entry `i = (aBits << w) | bBits` is
// `aBits * P + bBits * Q`, for `aBits, bBits` in `[0, 2^w)`.
//
// Tables are immutable once created.
type Table struct {
	_ disalloweq.DisallowEqual

	curve   Curve
	p, q    Point
	w       int
	entries []Point

	logger *zap.Logger
}

// TableOption is an option for NewTable.
type TableOption func(*tableOptions)

type tableOptions struct {
	logger      *zap.Logger
	concurrency int
}

// WithLogger sets the logger used for debug tracing of table generation
// and lookups.  The default is to not log.
func WithLogger(logger *zap.Logger) TableOption {
	return func(opts *tableOptions) {
		opts.logger = logger
	}
}

// WithConcurrency sets the maximum number of goroutines used to
// generate the table.  The default is `runtime.GOMAXPROCS(0)`.
func WithConcurrency(n int) TableOption {
	return func(opts *tableOptions) {
		opts.concurrency = n
	}
}

// NewTable generates the `2^(2w)`-entry table for `p` and `q` on `c`.
func NewTable(c Curve, p, q Point, w int, opts ...TableOption) (*Table, error) {
	o := &tableOptions{
		logger:      zap.NewNop(),
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}

	if err := validateWindowWidth(w); err != nil {
		return nil, err
	}
	if p == nil || q == nil {
		return nil, errors.Wrap(ErrInvalidPoint, "nil point")
	}
	if err := checkIdentityEncoding(c); err != nil {
		return nil, err
	}

	tbl := &Table{
		curve:  c,
		p:      p,
		q:      q,
		w:      w,
		logger: o.logger,
	}
	if err := tbl.generate(o.concurrency); err != nil {
		return nil, err
	}

	o.logger.Debug("generated table",
		zap.String("curve", c.Name()),
		zap.Int("window", w),
		zap.Int("entries", len(tbl.entries)),
	)

	return tbl, nil
}

func validateWindowWidth(w int) error {
	switch {
	case w < 1, w > MaxWindowWidth:
		return errors.Wrapf(ErrInvalidWindowWidth, "%d is out of range [1, %d]", w, MaxWindowWidth)
	case ScalarBits%w != 0:
		return errors.Wrapf(ErrInvalidWindowWidth, "%d does not divide %d", w, ScalarBits)
	}
	return nil
}

func (tbl *Table) generate(concurrency int) (err error) {
	c, w := tbl.curve, tbl.w

	// Validate that the points belong to the curve, before doing any
	// real work.  H = P + Q is computed once, so that a single addition
	// is done when both bits are set.
	var h Point
	if err = catchPanic(func() { h = c.Add(tbl.p, tbl.q) }); err != nil {
		return errors.Wrap(ErrInvalidPoint, err.Error())
	}

	n := 1 << (2 * w)
	entries := make([]Point, n)

	// Each entry is independent, so split the index space into
	// contiguous chunks, one per goroutine.  Every goroutine writes
	// only to its own slots.
	chunkSize := (n + concurrency - 1) / concurrency
	var g errgroup.Group
	g.SetLimit(concurrency)
	for lo := 0; lo < n; lo += chunkSize {
		lo, hi := lo, min(lo+chunkSize, n)
		g.Go(func() error {
			return catchPanic(func() {
				for i := lo; i < hi; i++ {
					entries[i] = tbl.computeEntry(h, i)
				}
			})
		})
	}
	if err = g.Wait(); err != nil {
		return errors.Wrap(err, "shamir: failed to generate table")
	}

	tbl.entries = entries

	return nil
}

// computeEntry returns `aBits * P + bBits * Q`, with `aBits = i >> w`
// and `bBits = i & (2^w - 1)`, by double-and-add from the most
// significant bit.
func (tbl *Table) computeEntry(h Point, i int) Point {
	c, w := tbl.curve, tbl.w

	aBits, bBits := i>>w, i&(1<<w-1)
	acc := c.Identity()
	for bit := w - 1; bit >= 0; bit-- {
		acc = c.Double(acc)

		aSet, bSet := (aBits>>bit)&1 == 1, (bBits>>bit)&1 == 1
		switch {
		case aSet && bSet:
			acc = c.Add(acc, h)
		case aSet:
			acc = c.Add(acc, tbl.p)
		case bSet:
			acc = c.Add(acc, tbl.q)
		}
	}

	return acc
}

// Curve returns the curve the table is over.
func (tbl *Table) Curve() Curve {
	return tbl.curve
}

// P returns the point multiplied by the first scalar.
func (tbl *Table) P() Point {
	return tbl.p
}

// Q returns the point multiplied by the second scalar.
func (tbl *Table) Q() Point {
	return tbl.q
}

// WindowWidth returns the window width in bits.
func (tbl *Table) WindowWidth() int {
	return tbl.w
}

// Len returns the number of entries in the table (`2^(2w)`).
func (tbl *Table) Len() int {
	return len(tbl.entries)
}

// Entry returns entry `i` of the table.  `i` MUST be in the range
// `[0, tbl.Len())`.
func (tbl *Table) Entry(i int) Point {
	return tbl.entries[i]
}

// Entries returns a copy of the table's entries, in index order.
func (tbl *Table) Entries() []Point {
	return append([]Point{}, tbl.entries...)
}

func catchPanic(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%v", r)
		}
	}()

	fn()

	return nil
}
