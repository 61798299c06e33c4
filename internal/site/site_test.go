package site

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdsite/internal/testutil"
)

const testTemplate = `<!DOCTYPE html>
<html>
<head><title>{{ Title }}</title></head>
<body><header>{{ Title }}</header><main>{{ Content }}</main></body>
</html>`

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	testutil.WriteTree(t, root, files)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
