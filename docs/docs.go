// Package docs embebe la especificación OpenAPI servida en /docs.
// El archivo swagger.json se mantiene a mano junto a las anotaciones godoc de
// los handlers.
package docs

import _ "embed"

//go:embed swagger.json
var Spec []byte
