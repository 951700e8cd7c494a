package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ApplicationStatus is the review state of a barista application as it
// travels on the wire. The zero value means no application has been
// submitted yet and is encoded as JSON null. Any other wire value, including
// the empty string, is set and keeps its raw text.
type ApplicationStatus struct {
	value string
	set   bool
}

// Wire values understood by the front end.
var (
	StatusUnset    = ApplicationStatus{}
	StatusPending  = StatusOf("pending")
	StatusAccepted = StatusOf("Accept")
	StatusRejected = StatusOf("Reject")
)

// StatusOf wraps a raw wire value. StatusOf("") is an unknown status, not StatusUnset.
func StatusOf(raw string) ApplicationStatus {
	return ApplicationStatus{value: raw, set: true}
}

// IsSet reports whether s carries a value. Only StatusUnset is not set.
func (s ApplicationStatus) IsSet() bool {
	return s.set
}

// String returns the raw wire value, empty for StatusUnset.
func (s ApplicationStatus) String() string {
	return s.value
}

// StatusKind is the closed set of outcomes a status value can map to.
type StatusKind int

// Status kinds. KindUnknown covers any wire value outside the known set.
const (
	KindUnset StatusKind = iota
	KindPending
	KindAccepted
	KindRejected
	KindUnknown
)

func (k StatusKind) String() string {
	switch k {
	case KindUnset:
		return "unset"
	case KindPending:
		return "pending"
	case KindAccepted:
		return "accepted"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Kind classifies the status. Matching is exact: "Pending" or "accepted"
// are unknown values.
func (s ApplicationStatus) Kind() StatusKind {
	if !s.set {
		return KindUnset
	}
	switch s {
	case StatusPending:
		return KindPending
	case StatusAccepted:
		return KindAccepted
	case StatusRejected:
		return KindRejected
	default:
		return KindUnknown
	}
}

// IsKnown reports whether s is one of the four contractual values.
func (s ApplicationStatus) IsKnown() bool {
	return s.Kind() != KindUnknown
}

// CanSubmit reports whether a barista in status s may (re)submit an application.
func (s ApplicationStatus) CanSubmit() bool {
	return s == StatusUnset || s == StatusRejected
}

// CanReview reports whether an application in status s awaits an admin decision.
func (s ApplicationStatus) CanReview() bool {
	return s == StatusPending
}

// ParseDecision validates an admin review decision.
func ParseDecision(raw string) (ApplicationStatus, error) {
	switch status := StatusOf(raw); status {
	case StatusAccepted, StatusRejected:
		return status, nil
	}
	return StatusUnset, fmt.Errorf("invalid decision %q: must be %q or %q", raw, StatusAccepted, StatusRejected)
}

// MarshalJSON encodes StatusUnset as null and anything else as a string.
func (s ApplicationStatus) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON decodes null as StatusUnset. Strings are kept verbatim and any
// other JSON value is kept as its raw text, so it classifies as unknown
// instead of failing the whole document.
func (s *ApplicationStatus) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		*s = StatusUnset
		return nil
	}
	var raw string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		*s = StatusOf(string(trimmed))
		return nil
	}
	*s = StatusOf(raw)
	return nil
}

// ParseStatusFilter parses a listing filter. "null" and "unset" select
// baristas who have not applied yet; otherwise the value must be known.
func ParseStatusFilter(raw string) (ApplicationStatus, error) {
	switch raw {
	case "null", "unset":
		return StatusUnset, nil
	}
	status := StatusOf(raw)
	if !status.IsKnown() {
		return StatusUnset, fmt.Errorf("invalid status filter %q", raw)
	}
	return status, nil
}

// BindValue returns the value to bind into an AQL query, nil for StatusUnset.
func (s ApplicationStatus) BindValue() interface{} {
	if !s.set {
		return nil
	}
	return s.value
}
