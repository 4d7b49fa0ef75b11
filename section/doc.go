// Package section handles the header section of a CRINEX file.
//
// A CRINEX file starts with two lines of its own followed by the RINEX
// observation header, copied verbatim:
//
//	3.0                 COMPACT RINEX FORMAT                    CRINEX VERS   / TYPE
//	RNX2CRX ver.4.1.0                       18-Oct-26 09:30     CRINEX PROG / DATE
//	     3.04           OBSERVATION DATA    M                   RINEX VERSION / TYPE
//	...
//	                                                            END OF HEADER
//
// CRINEX 1.0 carries RINEX 2.x observation files and CRINEX 3.0 carries RINEX
// 3.x and 4.x files. Versions are compared with github.com/hashicorp/go-version
// constraints so minor revisions such as "3.04" and "4.01" are accepted
// without listing them.
package section
