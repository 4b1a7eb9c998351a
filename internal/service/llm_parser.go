package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"req-entities/internal/domain"
)

var (
	errEmptyCompletion = errors.New("empty llm completion")
	errNoJSONObject    = errors.New("no json object in llm completion")
)

// MissingKeysError indica que el JSON era valido pero faltan claves obligatorias.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return "missing required keys: " + strings.Join(e.Keys, ", ")
}

// EntityResponseParser limpia y valida la salida del LLM contra la forma de EntityRecord.
type EntityResponseParser struct{}

// entityKeys se buscan con coincidencia exacta; "Actor" no cuenta como "actor".
var entityKeys = []string{"actor", "action", "object", "result"}

// ParseEntities devuelve el registro si la respuesta trae las cuatro claves como strings.
// Nunca mezcla datos parciales: cualquier falta es error.
func (EntityResponseParser) ParseEntities(raw string) (domain.EntityRecord, error) {
	cleaned := CleanLLMJSONResponse(raw)
	if cleaned == "" {
		return domain.EntityRecord{}, errEmptyCompletion
	}

	// JSON valido de otro tipo (array, string) se rechaza sin buscar objetos adentro.
	if json.Valid([]byte(cleaned)) {
		return decodeEntityPayload(cleaned)
	}

	obj := firstJSONObject(cleaned)
	if obj == "" {
		return domain.EntityRecord{}, errNoJSONObject
	}
	return decodeEntityPayload(obj)
}

func decodeEntityPayload(candidate string) (domain.EntityRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return domain.EntityRecord{}, fmt.Errorf("decode entities: %w", err)
	}

	values := make(map[string]string, len(entityKeys))
	var missing []string
	for _, key := range entityKeys {
		var v *string
		if raw, ok := fields[key]; ok {
			// null o valores que no son string cuentan como ausentes.
			if err := json.Unmarshal(raw, &v); err != nil {
				v = nil
			}
		}
		if v == nil {
			missing = append(missing, key)
			continue
		}
		values[key] = *v
	}
	if len(missing) > 0 {
		return domain.EntityRecord{}, &MissingKeysError{Keys: missing}
	}

	return domain.EntityRecord{
		Actor:  values["actor"],
		Action: values["action"],
		Object: values["object"],
		Result: values["result"],
	}, nil
}
