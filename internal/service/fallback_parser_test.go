package service

import (
	"testing"

	"req-entities/internal/domain"
)

func TestParseFallback(t *testing.T) {
	cases := []struct {
		name string
		text string
		want domain.EntityRecord
	}{
		{
			name: "empty text uses defaults",
			text: "",
			want: domain.EntityRecord{Actor: "Система", Action: "не определено", Object: "не определено", Result: ""},
		},
		{
			name: "four words",
			text: "Система должна логировать ошибки",
			want: domain.EntityRecord{Actor: "Система", Action: "должна логировать", Object: "ошибки", Result: "Система должна логировать ошибки"},
		},
		{
			name: "single word",
			text: "Авторизация",
			want: domain.EntityRecord{Actor: "Авторизация", Action: "не определено", Object: "не определено", Result: "Авторизация"},
		},
		{
			name: "exactly three words has action but no object",
			text: "Пользователь может войти",
			want: domain.EntityRecord{Actor: "Пользователь", Action: "может войти", Object: "не определено", Result: "Пользователь может войти"},
		},
		{
			name: "result stops at first period",
			text: "Сервис создаёт резервную копию базы. Ежедневно в полночь.",
			want: domain.EntityRecord{Actor: "Сервис", Action: "создаёт резервную", Object: "копию базы. Ежедневно в полночь.", Result: "Сервис создаёт резервную копию базы"},
		},
		{
			name: "extra whitespace collapses between tokens",
			text: "  Менеджер   получает\tуведомление  о заказе",
			want: domain.EntityRecord{Actor: "Менеджер", Action: "получает уведомление", Object: "о заказе", Result: "  Менеджер   получает\tуведомление  о заказе"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseFallback(tc.text)
			if !got.IsFallback {
				t.Fatalf("expected is_fallback=true")
			}
			got.IsFallback = false
			if got != tc.want {
				t.Fatalf("unexpected record:\n got  %+v\n want %+v", got, tc.want)
			}
		})
	}
}

func TestParseFallbackNeverSetsSessionMetadata(t *testing.T) {
	got := ParseFallback("Система должна логировать ошибки")
	if got.SessionID != "" || got.Timestamp != "" {
		t.Fatalf("fallback parser must not enrich records, got %+v", got)
	}
}
