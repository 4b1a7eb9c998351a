package service

import "fmt"

// EntityPromptBuilder arma el prompt de extraccion. El texto se interpola tal cual;
// el llamador ya lo recorto y rechazo si estaba vacio.
type EntityPromptBuilder struct{}

func (EntityPromptBuilder) BuildEntityPrompt(text string) string {
	return fmt.Sprintf(entityPromptTemplate, text)
}
