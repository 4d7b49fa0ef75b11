// Package rinexio reads and writes RINEX observation files as rinex.Record
// streams.
//
// The Reader turns text into records: COMMENT lines become *rinex.Comment,
// epochs with flag 2-6 become *rinex.Event with their payload lines kept
// verbatim, and normal epochs become *rinex.Epoch with one observation per
// declared type. Legacy satellite-list continuation lines and five-per-line
// observation wrapping are joined transparently; strictly wrapped modern
// records (continuation lines indented by three spaces) are accepted too.
//
// The Writer renders records back with the exact column layout CRX2RNX uses.
//
// Both sides stream: memory use is bounded by one epoch.
package rinexio
