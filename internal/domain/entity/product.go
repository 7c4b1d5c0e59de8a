package entity

// Product entrada del catálogo de insumos. Datos de referencia inmutables
// durante la ejecución del flujo.
type Product struct {
	ID       string
	SMSCode  string // código corto que los agentes escriben en los SMS (ej. "co", "or")
	Name     string
	Units    string
	TypeCode string // familia del insumo (ej. "malaria", "arv")
}
