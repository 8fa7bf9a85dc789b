package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"workshop-feedback/pkg/config"
	"workshop-feedback/pkg/logger/sl"
)

func TestNew_ProdIsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.EnvProd, &buf)

	log.Debug("hidden")
	log.Info("shown", sl.Err(errors.New("boom")))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestNew_DevLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.EnvDev, &buf)

	log.Debug("dbg", "k", "v")

	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestNew_LocalPrettyKeepsWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.EnvLocal, &buf).With("op", "otp.Dispatch")

	log.Info("sent", "channel", "sms")

	out := buf.String()
	assert.True(t, strings.Contains(out, "sent"))
	assert.Contains(t, out, `"op": "otp.Dispatch"`)
	assert.Contains(t, out, `"channel": "sms"`)
}

func TestErr_Nil(t *testing.T) {
	attr := sl.Err(nil)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "", attr.Value.String())
}
