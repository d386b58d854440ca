package server

import (
	"math"
	"strconv"
	"strings"
)

// Port — результат нормализации значения PORT.
// Ровно одно из состояний: Pipe (нечисловая строка), Disabled (отрицательное число) или TCP-порт Number.
type Port struct {
	Value    string
	Number   int
	Pipe     bool
	Disabled bool
}

// NormalizePort разбирает значение как parseInt(val, 10): ведущие пробелы, знак и цифры,
// остаток строки игнорируется. Нечисловое значение возвращается как есть (pipe),
// неотрицательное число принимается, отрицательное отключает прослушивание.
// Число, не влезающее в int, ограничивается math.MaxInt; такой порт отвергнет listen.
func NormalizePort(val string) Port {
	neg, digits, ok := scanLeadingInt(val)
	if !ok {
		return Port{Value: val, Pipe: true}
	}
	trimmed := strings.TrimLeft(digits, "0")
	if neg && trimmed != "" {
		return Port{Value: "-" + trimmed, Disabled: true}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Port{Value: trimmed, Number: math.MaxInt}
	}
	return Port{Value: strconv.Itoa(n), Number: n}
}

// scanLeadingInt возвращает знак и ведущие цифры; ok=false, если цифр нет.
func scanLeadingInt(val string) (neg bool, digits string, ok bool) {
	s := strings.TrimLeft(val, " \t\n\r\v\f")
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg, s = s[0] == '-', s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return false, "", false
	}
	return neg, s[:end], true
}

// Bind — описание точки прослушивания для сообщений об ошибках.
func (p Port) Bind() string {
	if p.Pipe {
		return "Pipe " + p.Value
	}
	return "Port " + p.Value
}

func (p Port) String() string {
	if p.Disabled {
		return "false"
	}
	return p.Value
}
