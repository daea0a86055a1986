package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/gowebpki/jcs"
)

// Stringify - приводит значение эндпоинта к тексту для таблицы и файлов.
// Списки и объекты сериализуются в канонический JSON (RFC 8785),
// строки и дескрипторы ошибок передаются как есть.
// Если в значении есть целое, которое не переживает float64, канонизация
// пропускается: ключи и так отсортированы, а цифры остаются как у студента.
func Stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case error:
		return val.Error()
	case nil:
		return "null"
	}

	raw, err := marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	if !floatSafe(v) {
		return string(raw)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return string(raw)
	}
	return string(canonical)
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// floatSafe - все ли json.Number внутри v точно представимы в float64
func floatSafe(v any) bool {
	switch val := v.(type) {
	case json.Number:
		return exactInFloat(val)
	case []any:
		for _, item := range val {
			if !floatSafe(item) {
				return false
			}
		}
	case map[string]any:
		for _, item := range val {
			if !floatSafe(item) {
				return false
			}
		}
	}
	return true
}

func exactInFloat(n json.Number) bool {
	s := n.String()
	if strings.ContainsAny(s, ".eE") {
		// дробные числа и так живут в float64
		return true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	want, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return false
	}
	got, _ := big.NewFloat(f).Int(nil)
	return got.Cmp(want) == 0
}
