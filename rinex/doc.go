// Package rinex defines the observation record model shared by the RINEX and
// CRINEX codecs.
//
// Values are exact decimals (Decimal) rather than floats so that compression is
// lossless. Epoch timestamps and event lines are kept as the text found in the
// file; only numeric observation columns, clock offsets and satellite lists are
// interpreted.
//
// The package does not read or write files. See package rinexio for the text
// reader and writer, and the root crinex package for the Compact RINEX codec.
package rinex
