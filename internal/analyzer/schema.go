package analyzer

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

// categorySchema - обязательная форма элемента списка категорий
const categorySchema = `{
	"type": "object",
	"required": ["categoryId", "name"]
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func loadCategorySchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiled, compileErr = compiler.Compile([]byte(categorySchema))
		if compileErr != nil {
			compileErr = fmt.Errorf("compile category schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// validCategory - проверяет элемент категорий по схеме
func validCategory(item any) bool {
	schema, err := loadCategorySchema()
	if err != nil {
		return false
	}
	data, err := json.Marshal(item)
	if err != nil {
		return false
	}
	return schema.ValidateJSON(data).IsValid()
}
