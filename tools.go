//go:build tools
// +build tools

// Package tools pins the code generators used by go generate, mockgen for the
// contract, token repository and chat API mocks, so go.mod and go.sum track them.
package chat_client

import (
	_ "go.uber.org/mock/mockgen"
)
