package loginflow

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// The client must stay free of server packages so the login command does not
// link the database driver.
func TestClientImportsNoServerPackages(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			assert.NotContains(t, path, "baristahub-backend/database", name)
			assert.NotContains(t, path, "arangodb", name)
			assert.NotContains(t, path, "baristahub-backend/restapi", name)
		}
	}
}

func TestNewDefaultsToSilentLogger(t *testing.T) {
	flow := New(&fakeTransport{}, &recordingPresenter{})
	require.NotNil(t, flow.log)
	assert.False(t, flow.log.Core().Enabled(zapcore.DebugLevel))
}
