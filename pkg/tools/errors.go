package tools

import (
	"fmt"
	"strings"
)

// ArgsError — аргументы вызова не соответствуют объявленной схеме инструмента.
type ArgsError struct {
	Tool    string
	Details []string
}

func (e *ArgsError) Error() string {
	return fmt.Sprintf("tool '%s': invalid arguments: %s", e.Tool, strings.Join(e.Details, "; "))
}

// NotFoundError — модель запросила инструмент, которого нет в реестре.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool '%s' not found", e.Name)
}
