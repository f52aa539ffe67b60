package calc

import (
	"fmt"
	"sort"
	"strings"
)

// FieldError — нарушение домена одного поля.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationErrors собирает все невалидные поля сразу, а не только первое.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation: ok"
	}
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Reason)
	}
	sort.Strings(parts)
	return "validation: " + strings.Join(parts, "; ")
}

// Fields — форма "id поля -> сообщение", как её ждут формы и бот.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Reason
		}
	}
	return out
}

func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (v *ValidationErrors) add(field, reason string) {
	*v = append(*v, FieldError{Field: field, Reason: reason})
}

// errOrNil нужен, чтобы не вернуть типизированный nil в интерфейсе error.
func (v ValidationErrors) errOrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// InvalidAddPriceError — расчётная цена доливки <= 0.
// Уже принятые шаги остаются валидными, дальше цикл не идёт.
type InvalidAddPriceError struct {
	Step     int
	AddPrice float64
}

func (e *InvalidAddPriceError) Error() string {
	return fmt.Sprintf("step %d: invalid add price %.8f", e.Step, e.AddPrice)
}
