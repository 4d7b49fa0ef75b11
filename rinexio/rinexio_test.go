package rinexio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/rinex"
)

const legacyFile = `     2.11           OBSERVATION DATA    G (GPS)             RINEX VERSION / TYPE
     7    C1    L1    L2    P2    S1    S2    D1            # / TYPES OF OBSERV
                                                            END OF HEADER
 08 12 18  0  0  0.0000000  0  2G01G 2                                .000123456
  20000000.000   105100000.12317                  21000000.500          45.250 5
         -.123            .500
  22000000.000   115000000.000    89999999.999

receiver reset                                              COMMENT
 08 12 18  0  0 30.0000000  4  2
ANTENNA CHANGED                                             COMMENT
        0.0000        0.0000        0.0000                  ANTENNA: DELTA H/E/N
 08 12 18  0  1  0.0000000  0  1G01
  20000001.500   105100007.9991                   21000002.000          45.000
         -.005
`

const legacyContinuationFile = `     2.11           OBSERVATION DATA    M (MIXED)           RINEX VERSION / TYPE
     1    C1                                                # / TYPES OF OBSERV
                                                            END OF HEADER
 21  1  2  3  4  5.5000000  0 13G01G02G03G04G05G06G07G08G09G10R01R02 -.000001234
                                E11
  20000000.000
  20000001.000
  20000002.000
  20000003.000
  20000004.000
  20000005.000
  20000006.000
  20000007.000
  20000008.000
  20000009.000
  20000010.000
  20000011.000
  20000012.000
`

const modernFile = `     3.04           OBSERVATION DATA    M                   RINEX VERSION / TYPE
G    3 C1C L1C S1C                                          SYS / # / OBS TYPES
R    2 C1C L1C                                              SYS / # / OBS TYPES
                                                            END OF HEADER
> 2022 03 04 00 00  0.0000000  0  2       -.000000012345
G05  21000000.123   110000000.45616        41.500
R03  19000000.000
> 2022 03 04 00 00 30.0000000  3  1
NEW SITE                                                    MARKER NAME
> 2022 03 04 00 01  0.0000000  0  1
R03  19000010.000    99999999.000 8
`

func readAll(t *testing.T, text string) (*rinex.Header, []rinex.Record) {
	t.Helper()

	r := NewReader(strings.NewReader(text))
	h, err := r.Header()
	require.NoError(t, err)

	var recs []rinex.Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		recs = append(recs, rec)
	}

	return h, recs
}

func writeAll(t *testing.T, h *rinex.Header, recs []rinex.Record, strict bool) string {
	t.Helper()

	var buf bytes.Buffer
	w := NewWriter(&buf, h.Revision, strict)
	require.NoError(t, w.WriteHeader(h))
	for _, rec := range recs {
		require.NoError(t, w.WriteRecord(rec))
	}
	require.NoError(t, w.Flush())

	return buf.String()
}

func TestReader_Legacy(t *testing.T) {
	h, recs := readAll(t, legacyFile)
	require.Equal(t, format.RevisionLegacy, h.Revision)
	require.Len(t, recs, 4)

	ep, ok := recs[0].(*rinex.Epoch)
	require.True(t, ok)
	require.Equal(t, rinex.Timestamp("08 12 18  0  0  0.0000000"), ep.Time)
	require.Equal(t, format.FlagOK, ep.Flag)
	require.NotNil(t, ep.Clock)
	require.Equal(t, rinex.NewDecimal(123456, rinex.LegacyClockPlaces), *ep.Clock)
	require.Len(t, ep.Sats, 2)
	require.Equal(t, "G 2", ep.Sats[1].ID.String())

	g01 := ep.Sats[0].Obs
	require.Len(t, g01, 7)
	require.Equal(t, rinex.Obs(20000000000), g01[0])
	require.Equal(t, rinex.Observation{Value: rinex.NewDecimal(105100000123, 3), Valid: true, LLI: '1', SSI: '7'}, g01[1])
	require.Equal(t, rinex.Blank(), g01[2])
	require.Equal(t, byte('5'), g01[4].SSI)
	require.Equal(t, rinex.Obs(-123), g01[5])

	require.Equal(t, rinex.Blank(), ep.Sats[1].Obs[6])

	require.IsType(t, &rinex.Comment{}, recs[1])

	ev, ok := recs[2].(*rinex.Event)
	require.True(t, ok)
	require.Equal(t, format.FlagHeader, ev.Flag)
	require.Len(t, ev.Payload, 2)
	require.True(t, rinex.IsCommentLine(ev.Payload[0]))

	last, ok := recs[3].(*rinex.Epoch)
	require.True(t, ok)
	require.Nil(t, last.Clock)
	require.Equal(t, byte('1'), last.Sats[0].Obs[1].LLI)
}

func TestReader_LegacySatelliteContinuation(t *testing.T) {
	_, recs := readAll(t, legacyContinuationFile)
	require.Len(t, recs, 1)

	ep := recs[0].(*rinex.Epoch)
	require.Len(t, ep.Sats, 13)
	require.Equal(t, "E11", ep.Sats[12].ID.String())
	require.Equal(t, rinex.Obs(20000012000), ep.Sats[12].Obs[0])
	require.Equal(t, rinex.NewDecimal(-1234, rinex.LegacyClockPlaces), *ep.Clock)
}

func TestReader_Modern(t *testing.T) {
	h, recs := readAll(t, modernFile)
	require.Equal(t, format.RevisionModern, h.Revision)
	require.Len(t, recs, 3)

	ep := recs[0].(*rinex.Epoch)
	require.Equal(t, rinex.Timestamp("2022 03 04 00 00  0.0000000"), ep.Time)
	require.Equal(t, rinex.NewDecimal(-12345, rinex.ModernClockPlaces), *ep.Clock)
	require.Len(t, ep.Sats[0].Obs, 3)
	require.Len(t, ep.Sats[1].Obs, 2)
	require.Equal(t, byte('6'), ep.Sats[0].Obs[1].SSI)
	require.False(t, ep.Sats[1].Obs[1].Valid)

	ev := recs[1].(*rinex.Event)
	require.Equal(t, format.FlagOccupation, ev.Flag)
	require.Equal(t, []string{fmt.Sprintf("%-60s%s", "NEW SITE", "MARKER NAME")}, ev.Payload)
}

func TestWriter_RoundTrip(t *testing.T) {
	for name, text := range map[string]string{
		"legacy":       legacyFile,
		"continuation": legacyContinuationFile,
		"modern":       modernFile,
	} {
		t.Run(name, func(t *testing.T) {
			h, recs := readAll(t, text)
			require.Equal(t, text, writeAll(t, h, recs, false))
		})
	}
}

func TestWriter_StrictModernRoundTrip(t *testing.T) {
	text := strings.Join([]string{
		"     3.04           OBSERVATION DATA    M                   RINEX VERSION / TYPE",
		"G    7 C1C L1C D1C S1C C2W L2W S2W                          SYS / # / OBS TYPES",
		"                                                            END OF HEADER",
		"> 2022 03 04 00 00  0.0000000  0  1",
		"G05  21000000.123   110000000.456           -.500          41.500    21000001.000",
		"    110000000.0001         35.000",
		"",
	}, "\n")

	h, recs := readAll(t, text)
	require.Len(t, recs, 1)

	ep := recs[0].(*rinex.Epoch)
	require.Len(t, ep.Sats[0].Obs, 7)
	require.Equal(t, rinex.Obs(35000), ep.Sats[0].Obs[6])
	require.Equal(t, byte('1'), ep.Sats[0].Obs[5].LLI)

	require.Equal(t, text, writeAll(t, h, recs, true))

	loose := writeAll(t, h, recs, false)
	require.Contains(t, loose, "G05  21000000.123   110000000.456           -.500          41.500    21000001.000   110000000.0001         35.000\n")
}

func TestReader_Truncated(t *testing.T) {
	tests := map[string]string{
		"observation record": legacyFile[:strings.Index(legacyFile, "  22000000.000")],
		"satellite list":     legacyContinuationFile[:strings.Index(legacyContinuationFile, "                                E11")],
	}

	for name, cut := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewReader(strings.NewReader(cut))
			_, err := r.Next()
			require.ErrorIs(t, err, errs.ErrTruncatedStream)
			require.NotErrorIs(t, err, errs.ErrMalformedEpoch)

			var se *errs.StreamError
			require.ErrorAs(t, err, &se)
			require.Positive(t, se.Line)
		})
	}
}

func TestReader_TruncatedEvent(t *testing.T) {
	cut := legacyFile[:strings.Index(legacyFile, "ANTENNA CHANGED")]

	r := NewReader(strings.NewReader(cut))
	var err error
	for err == nil {
		_, err = r.Next()
	}
	require.ErrorIs(t, err, errs.ErrTruncatedStream)
}

func TestReader_MissingHeaderEnd(t *testing.T) {
	r := NewReader(strings.NewReader(strings.SplitAfter(modernFile, "\n")[0]))
	_, err := r.Next()
	require.ErrorIs(t, err, errs.ErrMalformedHeader)
}

func TestReader_ModernRecordWithoutSatellite(t *testing.T) {
	text := strings.Replace(modernFile, "R03  19000000.000", "   19000000.000", 1)

	r := NewReader(strings.NewReader(text))
	_, err := r.Next()
	require.Error(t, err)
}

func TestReader_CRLF(t *testing.T) {
	_, recs := readAll(t, strings.ReplaceAll(modernFile, "\n", "\r\n"))
	require.Len(t, recs, 3)
}

func TestWriter_Order(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, format.RevisionModern, false)
	require.ErrorIs(t, w.WriteRecord(&rinex.Comment{Text: "x"}), errs.ErrHeaderNotWritten)

	h, _ := readAll(t, modernFile)
	require.NoError(t, w.WriteHeader(h))
	require.ErrorIs(t, w.WriteHeader(h), errs.ErrHeaderWritten)
}

func TestLineReader_Unread(t *testing.T) {
	lr := NewLineReader(strings.NewReader("a\nb\n"))

	line, err := lr.Next()
	require.NoError(t, err)
	require.Equal(t, "a", line)
	require.Equal(t, 1, lr.Line())

	lr.Unread(line)
	require.Equal(t, 0, lr.Line())

	line, err = lr.Next()
	require.NoError(t, err)
	require.Equal(t, "a", line)

	line, err = lr.Must("b")
	require.NoError(t, err)
	require.Equal(t, "b", line)

	_, err = lr.Next()
	require.ErrorIs(t, err, io.EOF)

	_, err = lr.Must("c")
	require.ErrorIs(t, err, errs.ErrTruncatedStream)
}
