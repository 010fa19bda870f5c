package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/gen-equality/internal/audit"
	"github.com/seitarof/gen-equality/internal/parser"
)

func moneyFindings() []audit.Finding {
	loc := parser.Location{File: "Legacy.cs", Line: 5, Column: 18}
	return []audit.Finding{
		{Kind: audit.KindMissingEquatable, TypeName: "Money", Location: loc},
		{Kind: audit.KindMissingOperators, TypeName: "Money", Location: loc},
	}
}

func TestReporter_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Report(moneyFindings()))
	assert.Equal(t, ""+
		"Legacy.cs:5:18: warning JP002: Type Money needs to implement IEquatable<T>\n"+
		"Legacy.cs:5:18: warning JP001: Type Money needs both == and != operators\n"+
		"2 finding(s)\n", buf.String())
}

func TestReporter_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, "").Report(nil))
	assert.Equal(t, "0 finding(s)\n", buf.String())
}

func TestReporter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatJSON).Report(moneyFindings()))

	var got []jsonFinding
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, jsonFinding{
		File:     "Legacy.cs",
		Line:     5,
		Column:   18,
		Code:     "JP001",
		Severity: "warning",
		Title:    "Add equality operators",
		Type:     "Money",
		Message:  "Type Money needs both == and != operators",
	}, got[1])

	buf.Reset()
	require.NoError(t, NewReporter(&buf, FormatJSON).Report(nil))
	assert.JSONEq(t, "[]", buf.String())
}
