// Package textcodec renders and parses the fixed-column text of RINEX and
// CRINEX observation records.
//
// It covers three kinds of text:
//
//   - CRINEX tokens and lines: arc-initialising ("3&20832393682") and
//     differenced ("-752") numeric tokens, satellite data lines, clock lines
//     and epoch descriptors.
//   - RINEX fixed-point fields: F14.3 observables, F12.9 legacy and F15.12
//     modern receiver clock offsets, laid out exactly as CRX2RNX writes them
//     (no leading zero before the decimal point for magnitudes below one).
//   - RINEX record lines: epoch lines with legacy 12-satellite continuation
//     and satellite records with legacy five-per-line wrapping.
//
// A value that does not fit its field is reported as errs.ErrColumnOverflow;
// nothing is truncated.
//
// Epoch line layouts:
//
//	legacy  " yy mm dd hh mm ss.sssssss  f nnnG01G02..."  time 1-25, flag 28, count 29-31, satellites from 32
//	modern  "> yyyy mm dd hh mm ss.sssssss  f nnn      G01..."  time 2-28, flag 31, count 32-34, satellites from 41
package textcodec
