package schedule

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// Field names a user-editable PortCall attribute
type Field string

const (
	FieldPortName        Field = "portName"
	FieldActivity        Field = "activity"
	FieldPortDays        Field = "portDays"
	FieldSecPortDays     Field = "secPortDays"
	FieldAdditionalCosts Field = "additionalCosts"
	FieldETA             Field = "eta"
	FieldETD             Field = "etd"
	FieldIsFixed         Field = "isFixed"
	FieldDistance        Field = "distance"
	FieldSecDistance     Field = "secDistance"
	FieldSpeedSetting    Field = "speedSetting"
	FieldHfoDays         Field = "hfoDays"
	FieldLsfoDays        Field = "lsfoDays"
	FieldMgoDays         Field = "mgoDays"
)

var editableFields = []Field{
	FieldPortName, FieldActivity, FieldPortDays, FieldSecPortDays, FieldAdditionalCosts,
	FieldETA, FieldETD, FieldIsFixed, FieldDistance, FieldSecDistance, FieldSpeedSetting,
	FieldHfoDays, FieldLsfoDays, FieldMgoDays,
}

// ParseField resolves a field name case-insensitively
func ParseField(name string) (Field, error) {
	for _, f := range editableFields {
		if strings.EqualFold(string(f), strings.TrimSpace(name)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown port call field: %s", name)
}

// IsStructural reports whether editing the field can change which corridors
// the schedule sails
func (f Field) IsStructural() bool {
	return f == FieldPortName
}

// AddPortCall inserts a one-day Bunker leg right after afterIndex
func AddPortCall(s Schedule, afterIndex int, ids IDSource) Schedule {
	out := s.Clone()
	leg := PortCall{
		ID:           newLegID(ids, out),
		Activity:     shared.ActivityBunker,
		PortDays:     1,
		SpeedSetting: shared.SpeedBallast,
		IsDeletable:  true,
	}
	if len(out) == 0 {
		return append(out, leg)
	}
	if afterIndex < 0 {
		afterIndex = 0
	}
	if afterIndex >= len(out) {
		afterIndex = len(out) - 1
	}
	return insertAt(out, afterIndex+1, leg)
}

// RemovePortCall drops the leg with id and any routing point reference to it.
// Guarding the ballast leg and cargo legs is up to the caller.
func RemovePortCall(s Schedule, id int) Schedule {
	return removeLegs(s.Clone(), map[int]bool{id: true})
}

// UpdatePortCallField applies one edit. Numeric values go through parse-or-zero;
// a port name edit re-stamps the EU flag and port id, clearing them for unknown ports.
func UpdatePortCallField(s Schedule, index int, field Field, value string, ports PortLookup) Schedule {
	out := s.Clone()
	if index < 0 || index >= len(out) {
		return out
	}
	leg := &out[index]

	switch field {
	case FieldPortName:
		leg.PortName = strings.TrimSpace(value)
		stampPort(leg, ports)
	case FieldActivity:
		kind, err := shared.ParseActivityKind(value)
		if err != nil || index == 0 || kind == shared.ActivityBallast {
			return out
		}
		leg.Activity = kind
	case FieldPortDays:
		leg.PortDays = shared.NonNegative(shared.ParseOrZero(value))
	case FieldSecPortDays:
		leg.SecPortDays = shared.NonNegative(shared.ParseOrZero(value))
	case FieldAdditionalCosts:
		leg.AdditionalCosts = shared.ParseOrZero(value)
	case FieldETA:
		leg.ETA, _ = shared.ParseLocalTime(value)
	case FieldETD:
		leg.ETD, _ = shared.ParseLocalTime(value)
	case FieldIsFixed:
		leg.IsFixed = shared.ParseBoolOrFalse(value)
	case FieldDistance:
		leg.Distance = shared.NonNegative(shared.ParseOrZero(value))
	case FieldSecDistance:
		leg.SecDistance = shared.NonNegative(shared.ParseOrZero(value))
	case FieldSpeedSetting:
		if setting, err := shared.ParseSpeedSetting(value); err == nil {
			leg.SpeedSetting = setting
		}
	case FieldHfoDays:
		leg.HfoDays = shared.NonNegative(shared.ParseOrZero(value))
	case FieldLsfoDays:
		leg.LsfoDays = shared.NonNegative(shared.ParseOrZero(value))
	case FieldMgoDays:
		leg.MgoDays = shared.NonNegative(shared.ParseOrZero(value))
	}
	return out
}

// MovePortCall is an array move. The ballast leg at index 0 can neither move nor
// be displaced, and neither can a fixed leg, so a move spanning one is refused.
// Refused moves and out-of-range indices leave s unchanged.
func MovePortCall(s Schedule, oldIndex, newIndex int) Schedule {
	out := s.Clone()
	if oldIndex <= 0 || newIndex <= 0 || oldIndex >= len(out) || newIndex >= len(out) || oldIndex == newIndex {
		return out
	}
	lo, hi := min(oldIndex, newIndex), max(oldIndex, newIndex)
	for _, leg := range out[lo : hi+1] {
		if leg.IsFixed {
			return out
		}
	}
	leg := out[oldIndex]
	out = append(out[:oldIndex], out[oldIndex+1:]...)
	return insertAt(out, newIndex, leg)
}

func insertAt(s Schedule, index int, legs ...PortCall) Schedule {
	out := make(Schedule, 0, len(s)+len(legs))
	out = append(out, s[:index]...)
	out = append(out, legs...)
	return append(out, s[index:]...)
}
