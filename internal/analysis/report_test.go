package analysis_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/bytebun/internal/analysis"
)

func reportFacts() []*analysis.Facts {
	a := analysis.NewFacts()
	a.Set("version", map[string]any{"id": "1.14.4", "protocol": 498})
	a.Set("instruments", []any{map[string]any{"name": "harp", "pitch": float32(0.7)}})
	b := analysis.NewFacts()
	b.Set("serializer", "java/util/Optional<Lchat;>")
	return []*analysis.Facts{a, b}
}

func TestWriteReportCompact(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, analysis.WriteReport(&buf, reportFacts(), true))
	assert.Equal(t,
		`[{"instruments":[{"name":"harp","pitch":0.7}],"version":{"id":"1.14.4","protocol":498}},{"serializer":"java/util/Optional<Lchat;>"}]`+"\n",
		buf.String())
}

func TestWriteReportPretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, analysis.WriteReport(&buf, reportFacts()[1:], false))
	assert.Equal(t, "[\n    {\n        \"serializer\": \"java/util/Optional<Lchat;>\"\n    }\n]\n", buf.String())
}

func TestWriteReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, analysis.WriteReport(&buf, nil, true))
	assert.Equal(t, "[]\n", buf.String())
}
