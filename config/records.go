// Package config reads and writes the files the tools work from: fitting-parameter records,
// which pose primitives in a scene, and the tool configuration itself.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/superquadric/scene"
	"go.viam.com/superquadric/spatialmath"
	"go.viam.com/superquadric/superquadric"
	"go.viam.com/superquadric/utils"
)

// FittingRecord is one hand-tuned primitive placement as stored in a fitting info file.
type FittingRecord struct {
	Primitive string  `json:"primitive"`
	A1        float64 `json:"a1"`
	A2        float64 `json:"a2"`
	A3        float64 `json:"a3"`
	Scale     float64 `json:"scale"`
	Tx        float64 `json:"tx"`
	Ty        float64 `json:"ty"`
	Tz        float64 `json:"tz"`
	Roll      float64 `json:"roll"`
	Pitch     float64 `json:"pitch"`
	Yaw       float64 `json:"yaw"`
	Object    string  `json:"object"`
}

var requiredRecordFields = []string{"primitive", "a1", "a2", "a3", "scale", "tx", "ty", "tz", "roll", "pitch", "yaw"}

// PoseParams converts the record.
func (r FittingRecord) PoseParams() superquadric.PoseParams {
	return superquadric.PoseParams{
		PrimitiveID:  r.Primitive,
		Scale:        r3.Vector{X: r.A1, Y: r.A2, Z: r.A3},
		UniformScale: r.Scale,
		Rotation:     spatialmath.EulerAngles{Roll: r.Roll, Pitch: r.Pitch, Yaw: r.Yaw},
		Translation:  r3.Vector{X: r.Tx, Y: r.Ty, Z: r.Tz},
	}
}

// NewFittingRecord is the inverse of FittingRecord.PoseParams.
func NewFittingRecord(params superquadric.PoseParams, object string) FittingRecord {
	return FittingRecord{
		Primitive: params.PrimitiveID,
		A1:        params.Scale.X,
		A2:        params.Scale.Y,
		A3:        params.Scale.Z,
		Scale:     params.UniformScale,
		Tx:        params.Translation.X,
		Ty:        params.Translation.Y,
		Tz:        params.Translation.Z,
		Roll:      params.Rotation.Roll,
		Pitch:     params.Rotation.Pitch,
		Yaw:       params.Rotation.Yaw,
		Object:    object,
	}
}

// Entries turns records into scene entries, keeping their order.
func Entries(records []FittingRecord) []scene.Entry {
	entries := make([]scene.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, scene.Entry{Params: r.PoseParams(), Object: r.Object})
	}
	return entries
}

// ReadFittingRecords reads a JSON array, or YAML sequence, of fitting records. Environment
// variables in the file are expanded. Every record must set the primitive and all ten pose
// fields; numbers given as strings are accepted.
func ReadFittingRecords(path string) ([]FittingRecord, error) {
	var raw []map[string]interface{}
	if err := readDocument(path, &raw); err != nil {
		return nil, err
	}
	return DecodeFittingRecords(path, raw)
}

// DecodeFittingRecords converts already parsed records. path is only used in errors.
func DecodeFittingRecords(path string, raw []map[string]interface{}) ([]FittingRecord, error) {
	records := make([]FittingRecord, 0, len(raw))
	var allErrs error
	for i, m := range raw {
		recordPath := fmt.Sprintf("%s[%d]", path, i)
		var rec FittingRecord
		unset, err := weakDecode(m, &rec)
		if err != nil {
			allErrs = multierr.Append(allErrs, utils.NewConfigValidationError(recordPath, err))
			continue
		}
		for _, field := range requiredRecordFields {
			if lo.Contains(unset, field) {
				allErrs = multierr.Append(allErrs, utils.NewConfigValidationError(recordPath,
					&superquadric.InvalidParameterError{Field: field, Reason: "is required"}))
			}
		}
		records = append(records, rec)
	}
	if allErrs != nil {
		return nil, allErrs
	}
	return records, nil
}

// WriteFittingRecords writes records as a JSON array indented by four spaces.
func WriteFittingRecords(path string, records []FittingRecord) error {
	if records == nil {
		records = []FittingRecord{}
	}
	buf, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return errors.Wrap(err, "failed to encode fitting records")
	}
	//nolint:gosec
	return os.WriteFile(path, append(buf, '\n'), 0o644)
}
