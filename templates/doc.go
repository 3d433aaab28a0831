package templates

import (
	"fmt"
	"strings"

	"promptbox/model"
)

// Doc renders markdown help for a template: description, parameters and
// examples.
func Doc(t model.Template) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n%s\n\n", t.Name, t.Description)

	if len(t.Required) > 0 {
		b.WriteString("**Parámetros requeridos:**\n")
		for _, p := range t.Required {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
		b.WriteString("\n")
	}
	if len(t.Optional) > 0 {
		b.WriteString("**Parámetros opcionales:**\n")
		for _, p := range t.Optional {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
		b.WriteString("\n")
	}
	if len(t.Examples) > 0 {
		b.WriteString("**Ejemplos:**\n\n")
		for _, ex := range t.Examples {
			desc := ex.Description
			if desc == "" {
				desc = ex.Output
			}
			fmt.Fprintf(&b, "```javascript\n%s\n```\n*%s*\n\n", ex.Input, desc)
		}
	}
	return b.String()
}

// Snippet returns a call skeleton to fill in for action.
func Snippet(action model.Action) string {
	switch action {
	case model.ActionCreate:
		return `Backend.crear("recurso", { campo: "valor" })`
	case model.ActionFetch:
		return `Backend.obtener("recurso", idOrQuery)`
	case model.ActionUpdate:
		return `Backend.actualizar("recurso", id, { campo: "nuevoValor" })`
	case model.ActionDelete:
		return `Backend.eliminar("recurso", id)`
	case model.ActionExecute:
		return `Backend.ejecutar("accion", payload)`
	case model.ActionCreateTable:
		return `Backend.crearTabla("Modulo", "Tabla", "Id:int, Nombre:string(100)")`
	}
	return fmt.Sprintf("Backend.%s(parametro)", action)
}
