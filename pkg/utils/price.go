package utils

import (
	"strconv"
	"strings"

	"github.com/aarondl/null/v8"

	apperrors "asset-control/pkg/errors"
)

var priceCleaner = strings.NewReplacer("₽", "", " ", "", " ", "", "\t", "")

// ParsePrice разбирает стоимость из текстового поля формы.
// Валюта и пробелы-разделители отбрасываются, затем строка пробуется
// как русская запись (запятая — десятичный разделитель, точка — тысячи),
// затем как инвариантная (точка — десятичный разделитель).
// Пустая строка — это "стоимость не указана", а не ошибка.
func ParsePrice(raw string) (null.Float64, error) {
	cleaned := priceCleaner.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return null.Float64{}, nil
	}

	if strings.Contains(cleaned, ",") {
		ru := strings.ReplaceAll(cleaned, ".", "")
		ru = strings.ReplaceAll(ru, ",", ".")
		if v, err := strconv.ParseFloat(ru, 64); err == nil {
			return null.Float64From(v), nil
		}
	}

	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return null.Float64From(v), nil
	}

	return null.Float64{}, apperrors.NewFormatError("Введите корректную стоимость")
}
