package shamir

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gitlab.com/yawning/tuplehash"
)

// EntrySize is the size of a serialized table entry in bytes, as in
// `X || Y`, with each coordinate a 32-byte big-endian integer.  The
// point at infinity is serialized as EntrySize zero bytes.
const EntrySize = 2 * CoordSize

// DigestSize is the size of a table digest in bytes.
const DigestSize = 32

var digestCustomization = []byte("shamir-voi/Table")

// EncodePoints returns the concatenated fixed-width serialization of
// `points`, in order.
func EncodePoints(points []Point) []byte {
	b := make([]byte, 0, len(points)*EntrySize)
	for _, p := range points {
		b = appendPoint(b, p)
	}
	return b
}

func appendPoint(b []byte, p Point) []byte {
	// Coordinates returns zeros for the point at infinity.
	x, y := p.Coordinates()
	b = append(b, x[:]...)
	return append(b, y[:]...)
}

// DecodePoint decodes an EntrySize-byte serialized point on `c`.
func DecodePoint(c Curve, src []byte) (Point, error) {
	if len(src) != EntrySize {
		return nil, errors.Wrapf(ErrInvalidPoint, "%d bytes, expected %d", len(src), EntrySize)
	}

	if isAllZero(src) {
		return c.Identity(), nil
	}

	p, err := c.NewPoint(src[:CoordSize], src[CoordSize:])
	if err != nil {
		return nil, errors.Wrapf(err, "curve '%s'", c.Name())
	}
	return p, nil
}

// Bytes returns the serialized table, as EntrySize bytes per entry, in
// index order.  Entry `i` is at byte offset `i * EntrySize`.
func (tbl *Table) Bytes() []byte {
	return EncodePoints(tbl.entries)
}

// Digest returns a TupleHash256 digest that identifies the table by
// its curve, window width, and the points P and Q.
func (tbl *Table) Digest() []byte {
	h := tuplehash.NewTupleHash256(digestCustomization, DigestSize)
	_, _ = h.Write([]byte(tbl.curve.Name()))
	_, _ = h.Write([]byte{byte(tbl.w)})
	_, _ = h.Write(appendPoint(nil, tbl.p))
	_, _ = h.Write(appendPoint(nil, tbl.q))
	return h.Sum(nil)
}

// DecodeTable reconstructs a table with window width `w` on `c` from
// its serialized form.  P and Q are recovered from the entries at
// indexes `1 << w` and `1` respectively.
func DecodeTable(c Curve, w int, src []byte, opts ...TableOption) (*Table, error) {
	if err := validateWindowWidth(w); err != nil {
		return nil, err
	}
	if err := checkIdentityEncoding(c); err != nil {
		return nil, err
	}

	n := 1 << (2 * w)
	if len(src) != n*EntrySize {
		return nil, errors.Errorf("shamir: serialized table is %d bytes, expected %d", len(src), n*EntrySize)
	}

	entries := make([]Point, n)
	for i := range entries {
		p, err := DecodePoint(c, src[i*EntrySize:(i+1)*EntrySize])
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
		entries[i] = p
	}
	if !entries[0].IsIdentity() {
		return nil, errors.Wrap(ErrInvalidPoint, "entry 0 is not the point at infinity")
	}

	o := &tableOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	return &Table{
		curve:   c,
		p:       entries[1<<w],
		q:       entries[1],
		w:       w,
		entries: entries,
		logger:  o.logger,
	}, nil
}

func isAllZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}
