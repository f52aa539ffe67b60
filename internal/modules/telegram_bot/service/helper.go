package service

import (
	"fmt"
	"strings"

	"contract_calc/internal/calc"
	"contract_calc/internal/report"
)

func onOff(v bool) string {
	if v {
		return "вкл"
	}
	return "выкл"
}

func f2(v float64) string { // для красивого вывода
	return report.Fixed(v, 2)
}

// reasonText — сообщение валидации по-русски.
func reasonText(reason string) string {
	switch reason {
	case "is required":
		return "нужно значение"
	case "must be a number":
		return "нужно число"
	case "must be an integer":
		return "нужно целое число"
	case "must be long or short":
		return "только long или short"
	case "must be a number > 0":
		return "нужно число больше 0"
	case "must be a number >= 1":
		return "нужно число от 1"
	case "must not be negative":
		return "не может быть отрицательным"
	case "must be a non-negative integer":
		return "нужно целое от 0"
	case "must be between 0 and 100":
		return "нужно число от 0 до 100"
	case "must be between 0 and less than 100 percent":
		return "нужно число от 0 до 100 (не включая)"
	}
	if strings.HasPrefix(reason, "must be <= ") {
		return "не больше " + strings.TrimPrefix(reason, "must be <= ")
	}
	return reason
}

// validationText — все ошибки формы списком.
func validationText(verr calc.ValidationErrors) string {
	var sb strings.Builder
	sb.WriteString("❗️ *Параметры не прошли проверку:*\n\n")
	for _, fe := range verr {
		sb.WriteString(fmt.Sprintf("• %s: %s\n", fieldLabel(fe.Field), reasonText(fe.Reason)))
	}
	return sb.String()
}
