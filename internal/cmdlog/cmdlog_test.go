package cmdlog

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"snsdedupe/internal/logging"
)

func TestRunLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logging.Setup("info", &buf)
	defer logging.Setup("warn", os.Stderr)

	assert.NoError(t, Run("check", func() error { return nil }))
	assert.Contains(t, buf.String(), `"msg":"check_ok"`)

	boom := errors.New("boom")
	err := Run("check", func() error { return boom })
	assert.Same(t, boom, err)
	assert.Contains(t, buf.String(), `"msg":"check_error"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
}
