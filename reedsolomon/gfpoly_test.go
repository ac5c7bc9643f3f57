package reedsolomon

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rsc.io/qr/gf256"

	qrcore "github.com/ericlevine/qrcore"
)

// otherField256 is a second 256-element field, used to provoke mismatches.
var otherField256 = NewGenericGF(0x012D, 256, 1)

func randomPoly(t *testing.T, rng *rand.Rand, maxDegree int) *GenericGFPoly {
	t.Helper()
	coefficients := make([]int, 1+rng.Intn(maxDegree+1))
	for i := range coefficients {
		coefficients[i] = rng.Intn(256)
	}
	p, err := NewGenericGFPoly(QRCodeField256, coefficients)
	require.NoError(t, err)
	return p
}

func mustPoly(t *testing.T, coefficients ...int) *GenericGFPoly {
	t.Helper()
	p, err := NewGenericGFPoly(QRCodeField256, coefficients)
	require.NoError(t, err)
	return p
}

func TestFieldMatchesReferenceTables(t *testing.T) {
	ref := gf256.NewField(0x11d, 2)
	field := QRCodeField256
	for a := 0; a < 256; a++ {
		assert.Equal(t, 0, AddOrSubtract(a, a), "a xor a")
		assert.Equal(t, a, AddOrSubtract(a, 0), "a xor 0")
		for b := 0; b < 256; b++ {
			if got, want := field.Multiply(a, b), int(ref.Mul(byte(a), byte(b))); got != want {
				t.Fatalf("Multiply(%d, %d) = %d, want %d", a, b, got, want)
			}
		}
		if a == 0 {
			continue
		}
		inv, err := field.Inverse(a)
		require.NoError(t, err)
		assert.Equal(t, int(ref.Inv(byte(a))), inv, "Inverse(%d)", a)
		log, err := field.Log(a)
		require.NoError(t, err)
		assert.Equal(t, ref.Log(byte(a)), log, "Log(%d)", a)
	}
	for e := 0; e < 255; e++ {
		assert.Equal(t, int(ref.Exp(e)), field.Exp(e), "Exp(%d)", e)
	}
}

func TestFieldArithmeticErrors(t *testing.T) {
	_, err := QRCodeField256.Inverse(0)
	assert.ErrorIs(t, err, qrcore.ErrArithmetic)
	_, err = QRCodeField256.Log(0)
	assert.ErrorIs(t, err, qrcore.ErrArithmetic)
	_, err = QRCodeField256.BuildMonomial(-1, 3)
	assert.ErrorIs(t, err, qrcore.ErrArithmetic)

	m, err := QRCodeField256.BuildMonomial(3, 0)
	require.NoError(t, err)
	assert.True(t, m.IsZero())

	m, err = QRCodeField256.BuildMonomial(3, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 0, 0, 0}, m.Coefficients())
	assert.Equal(t, 7, m.Coefficient(3))
	assert.Equal(t, 0, m.Coefficient(0))
}

func TestNewGenericGFPolyCanonicalForm(t *testing.T) {
	p := mustPoly(t, 0, 0, 5, 0, 1)
	assert.Equal(t, []int{5, 0, 1}, p.Coefficients())
	assert.Equal(t, 2, p.Degree())

	zero := mustPoly(t, 0, 0, 0)
	assert.True(t, zero.IsZero())
	assert.Equal(t, 0, zero.Degree())
	assert.Equal(t, []int{0}, zero.Coefficients())

	_, err := NewGenericGFPoly(QRCodeField256, nil)
	assert.ErrorIs(t, err, qrcore.ErrArithmetic)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		q := randomPoly(t, rng, 12)
		round := mustPoly(t, q.Coefficients()...)
		assert.True(t, round.Equal(q), "round trip of %v", q)
	}
}

func TestPolyIsImmutable(t *testing.T) {
	raw := []int{3, 2, 1}
	p, err := NewGenericGFPoly(QRCodeField256, raw)
	require.NoError(t, err)
	raw[0] = 99
	assert.Equal(t, 3, p.Coefficient(2))

	c := p.Coefficients()
	c[0] = 42
	assert.Equal(t, 3, p.Coefficient(2))
}

func TestEvaluateAtFastPaths(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		p := randomPoly(t, rng, 10)
		assert.Equal(t, p.Coefficient(0), p.EvaluateAt(0))
		sum := 0
		for _, c := range p.Coefficients() {
			sum ^= c
		}
		assert.Equal(t, sum, p.EvaluateAt(1))
	}
}

func TestPolyAlgebraProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		a := randomPoly(t, rng, 8)
		b := randomPoly(t, rng, 8)
		c := randomPoly(t, rng, 8)

		ab, err := a.AddOrSubtract(b)
		require.NoError(t, err)
		ba, err := b.AddOrSubtract(a)
		require.NoError(t, err)
		assert.True(t, ab.Equal(ba), "addition commutes")

		abc, err := ab.AddOrSubtract(c)
		require.NoError(t, err)
		bc, err := b.AddOrSubtract(c)
		require.NoError(t, err)
		aBC, err := a.AddOrSubtract(bc)
		require.NoError(t, err)
		assert.True(t, abc.Equal(aBC), "addition associates")

		aa, err := a.AddOrSubtract(a)
		require.NoError(t, err)
		assert.True(t, aa.IsZero(), "a - a = 0")

		aTimesB, err := a.Multiply(b)
		require.NoError(t, err)
		bTimesA, err := b.Multiply(a)
		require.NoError(t, err)
		assert.True(t, aTimesB.Equal(bTimesA), "multiplication commutes")
		if !a.IsZero() && !b.IsZero() {
			assert.Equal(t, a.Degree()+b.Degree(), aTimesB.Degree())
		}

		x := 2 + rng.Intn(254)
		assert.Equal(t, QRCodeField256.Multiply(a.EvaluateAt(x), b.EvaluateAt(x)), aTimesB.EvaluateAt(x))

		assert.Same(t, a, a.MultiplyScalar(1))
		assert.True(t, a.MultiplyScalar(0).IsZero())
	}
}

func TestMultiplyByMonomial(t *testing.T) {
	p := mustPoly(t, 1, 2, 3)

	_, err := p.MultiplyByMonomial(-1, 1)
	assert.ErrorIs(t, err, qrcore.ErrArithmetic)

	z, err := p.MultiplyByMonomial(4, 0)
	require.NoError(t, err)
	assert.True(t, z.IsZero())

	shifted, err := p.MultiplyByMonomial(2, 5)
	require.NoError(t, err)
	monomial, err := QRCodeField256.BuildMonomial(2, 5)
	require.NoError(t, err)
	product, err := p.Multiply(monomial)
	require.NoError(t, err)
	assert.True(t, shifted.Equal(product))
	assert.Equal(t, 4, shifted.Degree())
	assert.Equal(t, 0, shifted.Coefficient(0))
	assert.Equal(t, 0, shifted.Coefficient(1))
}

func TestDivideReconstructsDividend(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		a := randomPoly(t, rng, 16)
		b := randomPoly(t, rng, 8)
		if b.IsZero() {
			continue
		}
		quotient, remainder, err := a.Divide(b)
		require.NoError(t, err)

		qb, err := quotient.Multiply(b)
		require.NoError(t, err)
		back, err := qb.AddOrSubtract(remainder)
		require.NoError(t, err)
		assert.True(t, back.Equal(a), "%v != (%v)(%v) + %v", a, quotient, b, remainder)
		assert.True(t, remainder.IsZero() || remainder.Degree() < b.Degree())
	}
}

func TestDivideExactProduct(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 50; i++ {
		a := randomPoly(t, rng, 10)
		b := randomPoly(t, rng, 6)
		if a.IsZero() || b.IsZero() {
			continue
		}
		product, err := a.Multiply(b)
		require.NoError(t, err)
		quotient, remainder, err := product.Divide(b)
		require.NoError(t, err)
		assert.True(t, quotient.Equal(a), "(%v)(%v) / %v = %v", a, b, b, quotient)
		assert.True(t, remainder.IsZero())
	}
}

func TestDivideErrors(t *testing.T) {
	p := mustPoly(t, 1, 2, 3)
	_, _, err := p.Divide(QRCodeField256.Zero())
	assert.ErrorIs(t, err, qrcore.ErrArithmetic)

	foreign, err := NewGenericGFPoly(otherField256, []int{1, 1})
	require.NoError(t, err)
	_, _, err = p.Divide(foreign)
	assert.ErrorIs(t, err, qrcore.ErrFieldMismatch)
	_, err = p.AddOrSubtract(foreign)
	assert.ErrorIs(t, err, qrcore.ErrFieldMismatch)
	_, err = p.Multiply(foreign)
	assert.ErrorIs(t, err, qrcore.ErrFieldMismatch)
	assert.Equal(t, qrcore.KindFieldMismatch, qrcore.KindOf(err))
}

func TestAddOrSubtractZeroReturnsOperand(t *testing.T) {
	p := mustPoly(t, 4, 5)
	sum, err := QRCodeField256.Zero().AddOrSubtract(p)
	require.NoError(t, err)
	assert.Same(t, p, sum)
	sum, err = p.AddOrSubtract(QRCodeField256.Zero())
	require.NoError(t, err)
	assert.Same(t, p, sum)
}

func TestEncoderMatchesReferenceEncoder(t *testing.T) {
	ref := gf256.NewField(0x11d, 2)
	enc := NewEncoder(QRCodeField256)
	rng := rand.New(rand.NewSource(5))
	for _, ecBytes := range []int{7, 10, 13, 17, 26, 30} {
		data := make([]byte, 5+rng.Intn(40))
		rng.Read(data)

		check := make([]byte, ecBytes)
		gf256.NewRSEncoder(ref, ecBytes).ECC(data, check)

		block := make([]int, len(data)+ecBytes)
		for i, b := range data {
			block[i] = int(b)
		}
		require.NoError(t, enc.Encode(block, ecBytes))
		for i, b := range check {
			assert.Equal(t, int(b), block[len(data)+i], "ec=%d check[%d]", ecBytes, i)
		}
	}
}

func TestPolyString(t *testing.T) {
	assert.Equal(t, "0", QRCodeField256.Zero().String())
	assert.Equal(t, "1", QRCodeField256.One().String())
	// 2 = a, 4 = a^2
	assert.Equal(t, "a^2x^2 + x + a", mustPoly(t, 4, 1, 2).String())
}
