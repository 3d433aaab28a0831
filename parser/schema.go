package parser

import (
	"strings"

	"promptbox/model"
)

// schemas maps each action's positional arguments to Command fields.
var schemas = map[model.Action][]model.Slot{
	model.ActionCreate:      {model.SlotResource, model.SlotData},
	model.ActionFetch:       {model.SlotResource, model.SlotQuery},
	model.ActionUpdate:      {model.SlotResource, model.SlotID, model.SlotUpdates},
	model.ActionDelete:      {model.SlotResource, model.SlotID},
	model.ActionExecute:     {model.SlotResource, model.SlotPayload},
	model.ActionCreateTable: {model.SlotModule, model.SlotTableName, model.SlotFieldSpec},
}

// Schema returns the positional slots for action.
func Schema(action model.Action) []model.Slot {
	return schemas[action]
}

func newCommand(action model.Action, args []model.Value) model.Command {
	cmd := model.Command{Action: action}
	for i, slot := range schemas[action] {
		if i >= len(args) {
			break
		}
		cmd = cmd.With(slot, args[i])
	}
	if action == model.ActionCreateTable {
		cmd = cmd.With(model.SlotResource, cmd.TableName)
	}
	return cmd
}

// Build assembles a Command from free-form answers, one per positional
// argument. Each answer is decoded like a call argument; blank answers
// leave their slot absent.
func Build(action model.Action, answers ...string) model.Command {
	args := make([]model.Value, len(answers))
	for i, a := range answers {
		if strings.TrimSpace(a) != "" {
			args[i] = DecodeValue(a)
		}
	}
	return newCommand(action, args)
}

// Format writes cmd back as call source, e.g.
// Backend.obtener("proyecto", 123). Trailing absent arguments are dropped;
// absent arguments before a present one are written as null.
func Format(cmd model.Command) string {
	slots := schemas[cmd.Action]
	lits := make([]string, len(slots))
	last := -1
	for i, slot := range slots {
		v := cmd.Get(slot)
		if v.IsAbsent() {
			lits[i] = "null"
			continue
		}
		lits[i] = v.Literal()
		last = i
	}
	return "Backend." + string(cmd.Action) + "(" + strings.Join(lits[:last+1], ", ") + ")"
}
