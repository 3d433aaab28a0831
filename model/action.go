package model

// Action is a backend operation. Its string form is the keyword written
// after "Backend." in source text.
type Action string

const (
	ActionCreate      Action = "crear"
	ActionFetch       Action = "obtener"
	ActionUpdate      Action = "actualizar"
	ActionDelete      Action = "eliminar"
	ActionExecute     Action = "ejecutar"
	ActionCreateTable Action = "crearTabla"
)

// Actions lists every action in declaration order.
var Actions = []Action{
	ActionCreate,
	ActionFetch,
	ActionUpdate,
	ActionDelete,
	ActionExecute,
	ActionCreateTable,
}

func ParseAction(s string) (Action, bool) {
	for _, a := range Actions {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

func (a Action) Valid() bool {
	_, ok := ParseAction(string(a))
	return ok
}

// Call returns the normalized empty call form, e.g. "Backend.crear()".
func (a Action) Call() string {
	return "Backend." + string(a) + "()"
}
