package service

const entityPromptTemplate = `Ты — опытный аналитик требований к программному обеспечению.
Разбери требование и выдели четыре сущности:
- actor: кто выполняет действие (роль пользователя или система);
- action: что делает актор (глагол или короткая глагольная фраза);
- object: над чем выполняется действие;
- result: какой результат или цель достигается.

Верни ТОЛЬКО JSON-объект ровно с ключами "actor", "action", "object", "result".
Каждое значение — короткая фраза на языке требования. Без пояснений, без markdown.

Пример:
Требование: Пользователь должен иметь возможность экспортировать отчёт в PDF, чтобы делиться им с коллегами.
Ответ: {"actor": "Пользователь", "action": "экспортировать", "object": "отчёт в PDF", "result": "делиться отчётом с коллегами"}

Требование: %s
Ответ:`
