package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
)

func TestModule_GraphIsComplete(t *testing.T) {
	err := fx.ValidateApp(Module())
	assert.NoError(t, err)
}
