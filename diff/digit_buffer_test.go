package diff

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/rinex"
	"github.com/arloliu/crinex/textcodec"
)

const obsDigits = 13

func obs(units int64) rinex.Decimal {
	return rinex.NewDecimal(units, rinex.ObservationPlaces)
}

func newBuffer(t *testing.T, order int) *DigitBuffer {
	t.Helper()

	b, err := NewDigitBuffer(order, rinex.ObservationPlaces, obsDigits)
	require.NoError(t, err)

	return b
}

func TestNewDigitBuffer_InvalidOrder(t *testing.T) {
	_, err := NewDigitBuffer(-1, 3, obsDigits)
	require.ErrorIs(t, err, errs.ErrInvalidOrder)

	_, err = NewDigitBuffer(MaxOrder+1, 3, obsDigits)
	require.ErrorIs(t, err, errs.ErrInvalidOrder)

	b, err := NewDigitBuffer(MaxOrder, 3, obsDigits)
	require.NoError(t, err)
	require.Equal(t, MaxOrder, b.Order())
	require.Equal(t, -1, b.Level())
	require.Equal(t, -1, b.ArcOrder())
}

func TestDigitBuffer_Encode_FirstDifference(t *testing.T) {
	b := newBuffer(t, DefaultOrder)

	tok, err := b.Encode(rinex.MustParseDecimal("20000000.000", 3))
	require.NoError(t, err)
	require.True(t, tok.Init)
	require.Equal(t, "20000000000", tok.Digits())
	require.Equal(t, "4&20000000000", tok.String())

	tok, err = b.Encode(rinex.MustParseDecimal("20000001.500", 3))
	require.NoError(t, err)
	require.False(t, tok.Init)
	require.Equal(t, "1500", tok.String())
	require.Equal(t, 1, b.Level())

	d := newBuffer(t, DefaultOrder)
	v, err := d.Decode(textcodec.InitToken(4, 20000000000))
	require.NoError(t, err)
	require.Equal(t, "20000000.000", v.String())

	v, err = d.Decode(textcodec.DiffToken(1500))
	require.NoError(t, err)
	require.Equal(t, "20000001.500", v.String())
}

// Third order arcs of a real L1 phase track.
var phaseArcs = []struct {
	init   int64
	values []int64
	diffs  []int64
}{
	{
		init:   126298057858,
		values: []int64{126282454570, 126267372371, 126252810509, 127814188268, 127800656941, 127787641437, 127775141621},
		diffs:  []int64{-15603288, 521089, -752, 1575419284, -3150848707, 1575424909, -135},
	},
	{
		init:   111982965979,
		values: []int64{111966699068, 111951042015, 111935994607, 113496976151, 113483138205, 113469906136, 113457280090},
		diffs:  []int64{-16266911, 609858, -213, 1575419307, -3150848442, 1575425367, 146},
	},
}

func TestDigitBuffer_ThirdOrderArcs(t *testing.T) {
	enc := newBuffer(t, 3)
	dec := newBuffer(t, 3)

	for _, arc := range phaseArcs {
		enc.Reset()

		tok, err := enc.Encode(obs(arc.init))
		require.NoError(t, err)
		require.Equal(t, textcodec.InitToken(3, arc.init), tok)

		v, err := dec.Decode(tok)
		require.NoError(t, err)
		require.Equal(t, arc.init, v.Units)

		for i, want := range arc.values {
			tok, err := enc.Encode(obs(want))
			require.NoError(t, err)
			require.Equal(t, arc.diffs[i], tok.Value, "epoch %d", i+1)

			v, err := dec.Decode(tok)
			require.NoError(t, err)
			require.Equal(t, want, v.Units, "epoch %d", i+1)
		}
		require.Equal(t, 3, enc.Level())
		require.Equal(t, 3, dec.Level())
	}
}

func TestDigitBuffer_OrderZeroIsPassthrough(t *testing.T) {
	b := newBuffer(t, 0)

	values := []int64{5000, 7000, -3, 0, 123456789}
	for i, v := range values {
		tok, err := b.Encode(obs(v))
		require.NoError(t, err)
		require.Equal(t, v, tok.Value)
		require.Equal(t, i == 0, tok.Init)
	}

	d := newBuffer(t, 0)
	_, err := d.Decode(textcodec.InitToken(0, 5000))
	require.NoError(t, err)
	got, err := d.Decode(textcodec.DiffToken(42))
	require.NoError(t, err)
	require.Equal(t, int64(42), got.Units)
}

func TestDigitBuffer_RoundTripAllOrders(t *testing.T) {
	values := []int64{20832393682, 20832406632, 20832419682, 20832432900, 20832446100, 20832459400, 20832472800, 20832486000}

	for order := 0; order <= MaxOrder; order++ {
		enc := newBuffer(t, order)
		dec := newBuffer(t, order)
		for _, v := range values {
			tok, err := enc.Encode(obs(v))
			require.NoError(t, err)

			parsed, err := textcodec.ParseToken(tok.String())
			require.NoError(t, err)

			got, err := dec.Decode(parsed)
			require.NoError(t, err)
			require.Equal(t, v, got.Units, "order %d", order)
		}
	}
}

func TestDigitBuffer_DecodeErrors(t *testing.T) {
	t.Run("underflow", func(t *testing.T) {
		b := newBuffer(t, 3)
		_, err := b.Decode(textcodec.DiffToken(10))
		require.ErrorIs(t, err, errs.ErrHistoryUnderflow)
	})

	t.Run("arc order above ceiling", func(t *testing.T) {
		b := newBuffer(t, 3)
		_, err := b.Decode(textcodec.InitToken(4, 10))
		require.ErrorIs(t, err, errs.ErrMalformedDifference)
	})

	t.Run("blank", func(t *testing.T) {
		b := newBuffer(t, 3)
		_, err := b.Decode(textcodec.BlankToken())
		require.ErrorIs(t, err, errs.ErrMalformedDifference)
	})

	t.Run("reset loses history", func(t *testing.T) {
		b := newBuffer(t, 3)
		_, err := b.Decode(textcodec.InitToken(3, 10))
		require.NoError(t, err)
		require.True(t, b.Primed())
		b.Reset()
		_, err = b.Decode(textcodec.DiffToken(1))
		require.ErrorIs(t, err, errs.ErrHistoryUnderflow)
	})
}

func TestDigitBuffer_ScaleMismatch(t *testing.T) {
	b := newBuffer(t, 3)
	_, err := b.Encode(rinex.NewDecimal(1, 4))
	require.ErrorIs(t, err, errs.ErrScaleMismatch)
}

func TestDigitBuffer_ColumnOverflow(t *testing.T) {
	t.Run("raw value", func(t *testing.T) {
		b := newBuffer(t, 3)
		_, err := b.Encode(obs(99999999999999))
		require.ErrorIs(t, err, errs.ErrColumnOverflow)
		require.False(t, b.Primed())
	})

	t.Run("difference", func(t *testing.T) {
		// Both values fit F14.3 but their second difference does not.
		b := newBuffer(t, 2)
		_, err := b.Encode(obs(-999999999999))
		require.NoError(t, err)
		_, err = b.Encode(obs(999999999999))
		require.NoError(t, err)
		_, err = b.Encode(obs(-999999999999))
		require.ErrorIs(t, err, errs.ErrColumnOverflow)
		require.Equal(t, 1, b.Level(), "failed encode must not advance")
	})

	t.Run("decoded value", func(t *testing.T) {
		b := newBuffer(t, 1)
		_, err := b.Decode(textcodec.InitToken(1, 999999999999))
		require.NoError(t, err)
		_, err = b.Decode(textcodec.DiffToken(9999999999999))
		require.ErrorIs(t, err, errs.ErrColumnOverflow)
	})
	t.Run("differenced token", func(t *testing.T) {
		b := newBuffer(t, 2)
		_, err := b.Decode(textcodec.InitToken(2, 0))
		require.NoError(t, err)
		_, err = b.Decode(textcodec.DiffToken(-9999999999999))
		require.ErrorIs(t, err, errs.ErrColumnOverflow)
		require.Equal(t, 0, b.Level(), "failed decode must not advance")

		v, err := b.Decode(textcodec.DiffToken(-999999999999))
		require.NoError(t, err)
		require.Equal(t, obs(-999999999999), v)
	})
}

func BenchmarkDigitBuffer_Encode(b *testing.B) {
	buf, _ := NewDigitBuffer(DefaultOrder, rinex.ObservationPlaces, obsDigits)
	v := int64(20832393682)

	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		if _, err := buf.Encode(obs(v + int64(i*13050))); err != nil {
			b.Fatal(err)
		}
	}
}
