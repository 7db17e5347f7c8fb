package services

// ControlMethod is one entry of the inspection method catalogue.
type ControlMethod struct {
	Code string // short code used in the list filter
	Name string // value stored on the record
}

// ControlMethodOptions lists the supported inspection methods.
var ControlMethodOptions = []ControlMethod{
	{Code: "УЗК", Name: "Ультразвуковой контроль"},
	{Code: "РК", Name: "Радиографический контроль"},
	{Code: "ВК", Name: "Визуальный контроль"},
	{Code: "МК", Name: "Магнитопорошковый контроль"},
}

// ControlMethodCode returns the short code for a method name, or the name
// itself when it is not in the catalogue.
func ControlMethodCode(name string) string {
	for _, m := range ControlMethodOptions {
		if m.Name == name {
			return m.Code
		}
	}
	return name
}

// ResultOptions lists the overall results in form order.
var ResultOptions = []string{"допущено", "не допущено"}

// VerdictOptions lists the per-joint tags in form order.
var VerdictOptions = []string{"ПРИГ", "БРАК"}
