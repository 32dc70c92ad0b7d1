// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AuthorRecord is the cached result of resolving one author name against
// the ORCID registry. A record with an empty ORCID and Method "not_found"
// means the lookup ran and found no acceptable candidate.
type AuthorRecord struct {
	FullName   string    `json:"full_name" yaml:"full_name"`
	GivenName  string    `json:"given_name,omitempty" yaml:"given_name,omitempty"`
	FamilyName string    `json:"family_name,omitempty" yaml:"family_name,omitempty"`
	ORCID      string    `json:"orcid_id,omitempty" yaml:"orcid_id,omitempty"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
	Method     string    `json:"method" yaml:"method"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}
