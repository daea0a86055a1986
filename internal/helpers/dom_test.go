package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageTitle(t *testing.T) {
	page := []byte(`<!DOCTYPE html><html><head><title>
		React   App
	</title></head><body><div id="root"></div></body></html>`)

	require.True(t, LooksLikeHTML(page))
	require.Equal(t, "React App", PageTitle(page))
}

func TestPageTitleMissing(t *testing.T) {
	page := []byte(`<html><body><h1>Whitelabel Error Page</h1></body></html>`)
	require.True(t, LooksLikeHTML(page))
	require.Equal(t, "", PageTitle(page))
}

func TestLooksLikeHTMLRejectsPlainText(t *testing.T) {
	require.False(t, LooksLikeHTML([]byte("OK")))
	require.False(t, LooksLikeHTML([]byte(`{"name": "<html>"`)))
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", 0)
	require.Equal(t, DefaultUserAgent, client.Header.Get("User-Agent"))
	require.Equal(t, 0, client.RetryCount)
}
