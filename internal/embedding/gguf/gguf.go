// Package gguf embeds text with a local GGUF sentence-embedding model
// (for example all-MiniLM-L6-v2) through llama.cpp.
//
// The llama.cpp backend loads libllama_go.so when the package is initialized,
// so it is only compiled with the gguf build tag:
//
//	go build -tags gguf ./cmd/medibot
package gguf

import "errors"

// ErrModelPathRequired is returned when no model file is configured.
var ErrModelPathRequired = errors.New("gguf model path is required")
