package model

import "encoding/json"

// Slot names a Command field that a positional call argument can fill.
type Slot int

const (
	SlotResource Slot = iota
	SlotData
	SlotQuery
	SlotID
	SlotUpdates
	SlotPayload
	SlotModule
	SlotTableName
	SlotFieldSpec
)

var slotNames = [...]string{
	SlotResource:  "resource",
	SlotData:      "data",
	SlotQuery:     "query",
	SlotID:        "id",
	SlotUpdates:   "updates",
	SlotPayload:   "payload",
	SlotModule:    "module",
	SlotTableName: "tableName",
	SlotFieldSpec: "fieldSpec",
}

// String returns the slot's JSON field name.
func (s Slot) String() string {
	if s < 0 || int(s) >= len(slotNames) {
		return "unknown"
	}
	return slotNames[s]
}

// Command is one recognized backend call. Only the fields relevant to
// Action are set; the rest stay absent. Treat it as a value: With returns
// a modified copy.
type Command struct {
	Action   Action
	Resource string

	Data    Value
	Query   Value
	ID      Value
	Updates Value
	Payload Value

	Module    Value
	TableName Value
	FieldSpec Value
}

// Get returns the value stored in slot. The resource slot yields a string
// Value, or absent when no resource is set.
func (c Command) Get(s Slot) Value {
	switch s {
	case SlotResource:
		if c.Resource == "" {
			return Value{}
		}
		return String(c.Resource)
	case SlotData:
		return c.Data
	case SlotQuery:
		return c.Query
	case SlotID:
		return c.ID
	case SlotUpdates:
		return c.Updates
	case SlotPayload:
		return c.Payload
	case SlotModule:
		return c.Module
	case SlotTableName:
		return c.TableName
	case SlotFieldSpec:
		return c.FieldSpec
	}
	return Value{}
}

// With returns a copy of c with slot set to v.
func (c Command) With(s Slot, v Value) Command {
	switch s {
	case SlotResource:
		c.Resource = v.Text()
	case SlotData:
		c.Data = v
	case SlotQuery:
		c.Query = v
	case SlotID:
		c.ID = v
	case SlotUpdates:
		c.Updates = v
	case SlotPayload:
		c.Payload = v
	case SlotModule:
		c.Module = v
	case SlotTableName:
		c.TableName = v
	case SlotFieldSpec:
		c.FieldSpec = v
	}
	return c
}

type commandJSON struct {
	Action    Action          `json:"action"`
	Resource  string          `json:"resource,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Query     json.RawMessage `json:"query,omitempty"`
	ID        json.RawMessage `json:"id,omitempty"`
	Updates   json.RawMessage `json:"updates,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Module    json.RawMessage `json:"module,omitempty"`
	TableName json.RawMessage `json:"tableName,omitempty"`
	FieldSpec json.RawMessage `json:"fieldSpec,omitempty"`
}

// MarshalJSON leaves absent fields out of the record.
func (c Command) MarshalJSON() ([]byte, error) {
	out := commandJSON{Action: c.Action, Resource: c.Resource}
	fields := []struct {
		dst *json.RawMessage
		v   Value
	}{
		{&out.Data, c.Data},
		{&out.Query, c.Query},
		{&out.ID, c.ID},
		{&out.Updates, c.Updates},
		{&out.Payload, c.Payload},
		{&out.Module, c.Module},
		{&out.TableName, c.TableName},
		{&out.FieldSpec, c.FieldSpec},
	}
	for _, f := range fields {
		if f.v.IsAbsent() {
			continue
		}
		b, err := f.v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		*f.dst = b
	}
	return json.Marshal(out)
}
