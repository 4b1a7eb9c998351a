package service

import (
	"encoding/json"
	"strings"
)

// firstJSONObject devuelve el primer objeto JSON completo embebido en input,
// por ejemplo cuando el modelo antepone "Ответ:" o agrega texto al final.
func firstJSONObject(input string) string {
	for offset := 0; offset < len(input); {
		idx := strings.IndexByte(input[offset:], '{')
		if idx == -1 {
			return ""
		}
		start := offset + idx

		var obj json.RawMessage
		dec := json.NewDecoder(strings.NewReader(input[start:]))
		if err := dec.Decode(&obj); err == nil {
			return string(obj)
		}
		offset = start + 1
	}
	return ""
}
