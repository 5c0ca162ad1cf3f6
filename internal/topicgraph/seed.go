package topicgraph

import (
	_ "embed"
	"fmt"
)

//go:embed catalog.yaml
var catalogYAML []byte

func init() {
	gr, err := Load(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("topicgraph: embedded catalog: %v", err))
	}
	g = gr
}
