package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyosobang/passgate/pkg/types"
)

func TestGetPassItemByID(t *testing.T) {
	c := &Config{PassItems: []*types.PassItem{
		{ID: "trial_1", Name: "1회권 (첫 체험)", Count: 1, Price: 35000},
		{ID: "bundle_10", Name: "10회권", Count: 10, Price: 350000},
	}}

	item := c.GetPassItemByID("bundle_10")
	require.NotNil(t, item)
	require.Equal(t, 10, item.Count)

	require.Nil(t, c.GetPassItemByID("missing"))
}

func TestNew_DefaultCatalog(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	require.NotEmpty(t, c.PassItems)
	require.NotNil(t, c.GetPassItemByID("trial_1"))
	require.Equal(t, 8888, c.Server.Port)
}
