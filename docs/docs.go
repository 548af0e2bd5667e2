// Package docs registra la especificación OpenAPI de la API en swag.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerJSON string

// SwaggerInfo metadatos de la especificación.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "EPI Control API",
	Description:      "Control de stock y entregas de Equipamentos de Proteção Individual.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerJSON,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// JSON devuelve la especificación registrada.
func JSON() ([]byte, error) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}
