// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

const (
	// DateTypeField is the discriminator key of a serialized timestamp.
	DateTypeField = "__dateType"
	// DateValueField holds the ISO-8601 text of a serialized timestamp.
	DateValueField = "value"
	// DateTypeTag is the only discriminator value recognised on decode.
	DateTypeTag = "Date"
)

// TaggedDate is the JSON shape a timestamp takes inside a serialized
// document: {"__dateType":"Date","value":"2024-01-02T03:04:05.678Z"}.
type TaggedDate struct {
	DateType string `json:"__dateType"`
	Value    string `json:"value"`
}
