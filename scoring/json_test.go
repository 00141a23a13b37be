package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONResponsePlainObject(t *testing.T) {
	in := `{"main_score": 70}`
	assert.Equal(t, in, CleanJSONResponse(in))
}

func TestCleanJSONResponseStripsFences(t *testing.T) {
	in := "```json\n{\"main_score\": 70, \"extra_score\": 10}\n```"
	assert.Equal(t, `{"main_score": 70, "extra_score": 10}`, CleanJSONResponse(in))

	in = "```\n{\"ok\": true}\n```"
	assert.Equal(t, `{"ok": true}`, CleanJSONResponse(in))
}

func TestCleanJSONResponseRescuesEmbeddedObject(t *testing.T) {
	in := `Sure, here is the evaluation: {"main_score": 55, "note": "braces { inside strings } are fine"} hope that helps`
	assert.Equal(t, `{"main_score": 55, "note": "braces { inside strings } are fine"}`, CleanJSONResponse(in))
}

func TestCleanJSONResponseSkipsUnbalancedPrefix(t *testing.T) {
	in := `broken { not json ... {"total_score": 90}`
	assert.Equal(t, `{"total_score": 90}`, CleanJSONResponse(in))
}

func TestCleanJSONResponseNoObject(t *testing.T) {
	in := "no json at all"
	assert.Equal(t, in, CleanJSONResponse(in))
}
