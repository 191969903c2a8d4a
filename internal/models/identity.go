// Package models defines core data types for ofxpostern
package models

import "strings"

// ServerIdentity identifies one OFX server endpoint. FID routes a request
// to a financial institution behind a shared endpoint; Org names the
// organizational unit within it. Either may be empty.
type ServerIdentity struct {
	URL string
	FID string
	Org string
}

// NewServerIdentity creates an immutable server identity value.
func NewServerIdentity(url, fid, org string) ServerIdentity {
	return ServerIdentity{URL: url, FID: fid, Org: org}
}

// segmentSanitizer strips characters that would let FID/Org values escape
// the per-identity cache directory.
var segmentSanitizer = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")

// urlSegmentReplacer flattens the URL path into a single directory name.
var urlSegmentReplacer = strings.NewReplacer("/", "_", "&", "+")

// CacheKey derives the filesystem-safe directory name for this identity:
// everything after the URL's first '/' with the leading character dropped,
// '/' replaced with '_' and '&' with '+', composed as "<url>-<fid>-<org>".
// Equal (URL, FID, Org) triples always map to equal keys, and the result
// contains no path separators.
func (s ServerIdentity) CacheKey() string {
	seg := s.URL
	if i := strings.Index(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	} else {
		seg = ""
	}
	if seg != "" {
		seg = seg[1:]
	}
	seg = urlSegmentReplacer.Replace(seg)

	fid := segmentSanitizer.Replace(s.FID)
	org := segmentSanitizer.Replace(s.Org)

	return seg + "-" + fid + "-" + org
}
