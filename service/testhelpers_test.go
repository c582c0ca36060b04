package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mortgage-engine/config"
)

func newTestMortgageMath(t *testing.T) *MortgageMath {
	t.Helper()
	policy, err := config.DefaultPolicy()
	require.NoError(t, err)
	return NewMortgageMath(policy)
}
