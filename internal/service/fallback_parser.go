package service

import (
	"strings"

	"req-entities/internal/domain"
)

// ParseFallback es la heuristica por posicion de palabras que se usa cuando el LLM
// no entrega un JSON valido. Es tosca a proposito, pero siempre devuelve los cuatro campos.
func ParseFallback(text string) domain.EntityRecord {
	words := strings.Fields(text)

	record := domain.EntityRecord{
		Actor:      domain.DefaultActor,
		Action:     domain.UndeterminedSegment,
		Object:     domain.UndeterminedSegment,
		IsFallback: true,
	}
	if len(words) > 0 {
		record.Actor = words[0]
	}
	if len(words) >= 3 {
		record.Action = words[1] + " " + words[2]
	}
	if len(words) > 3 {
		record.Object = strings.Join(words[3:], " ")
	}

	record.Result, _, _ = strings.Cut(text, ".")
	return record
}
