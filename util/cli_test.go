package util

import (
	"testing"

	"github.com/Emre-C/notion-to-md/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCredentials(t *testing.T) {
	t.Run("missing token is rejected", func(t *testing.T) {
		_, err := GetCredentials("", "https://api.notion.com")
		require.Error(t, err)
	})

	t.Run("token is passed through", func(t *testing.T) {
		creds, err := GetCredentials("secret_abc", "https://api.notion.com")
		require.NoError(t, err)

		assert.Equal(t, "secret_abc", creds.Token)
		assert.Equal(t, "https://api.notion.com", creds.BaseURL)
	})

	t.Run("trailing slash is trimmed off the base url", func(t *testing.T) {
		creds, err := GetCredentials("secret_abc", "https://api.notion.com/")
		require.NoError(t, err)

		assert.Equal(t, "https://api.notion.com", creds.BaseURL)
	})
}

func TestUnitOrder_ParentComesFirst(t *testing.T) {
	units := map[string]string{
		"child-b":           "b",
		renderer.ParentUnit: "root",
		"child-a":           "a",
	}

	order := unitOrder(units)

	require.Len(t, order, 3)
	assert.Equal(t, renderer.ParentUnit, order[0])
	assert.ElementsMatch(t, []string{"child-a", "child-b"}, order[1:])
}
