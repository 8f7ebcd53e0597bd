package schematron

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xb.dev/xb/xmlevent"
)

func parse(t *testing.T, src string) *Schema {
	t.Helper()
	sch, err := Parse(xmlevent.NewReader(strings.NewReader(src)))
	require.NoError(t, err)
	return sch
}

func TestParseTitleAndNamespace(t *testing.T) {
	const src = `<schema xmlns="http://purl.oclc.org/dml/schematron">
		<title>Order constraints</title>
		<ns prefix="o" uri="urn:order"/>
	</schema>`
	sch := parse(t, src)
	assert.Equal(t, "Order constraints", sch.Title)
	require.Len(t, sch.Namespaces, 1)
	assert.Equal(t, "o", sch.Namespaces[0].Prefix)
	assert.Equal(t, "urn:order", sch.Namespaces[0].URI)
}

func TestParsePatternRuleAssert(t *testing.T) {
	const src = `<schema xmlns="http://purl.oclc.org/dml/schematron">
		<pattern id="p1">
			<rule context="order">
				<assert test="@total &gt; 0">total must be positive</assert>
			</rule>
		</pattern>
	</schema>`
	sch := parse(t, src)
	require.Len(t, sch.Patterns, 1)
	assert.Equal(t, "p1", sch.Patterns[0].ID)
	require.Len(t, sch.Patterns[0].Rules, 1)
	rule := sch.Patterns[0].Rules[0]
	assert.Equal(t, "order", rule.Context)
	require.Len(t, rule.Checks, 1)
	assert.True(t, rule.Checks[0].IsAssert)
	assert.Equal(t, "@total > 0", rule.Checks[0].Test)
	assert.Equal(t, "total must be positive", rule.Checks[0].Message)
}

func TestParseReportCheck(t *testing.T) {
	const src = `<schema xmlns="http://purl.oclc.org/dml/schematron">
		<pattern>
			<rule context="order">
				<report test="@total &lt; 0">total is negative</report>
			</rule>
		</pattern>
	</schema>`
	sch := parse(t, src)
	check := sch.Patterns[0].Rules[0].Checks[0]
	assert.False(t, check.IsAssert)
	assert.Equal(t, "@total < 0", check.Test)
}

func TestParsePhaseActivePatterns(t *testing.T) {
	const src = `<schema xmlns="http://purl.oclc.org/dml/schematron">
		<phase id="strict">
			<active pattern="p1"/>
			<active pattern="p2"/>
		</phase>
	</schema>`
	sch := parse(t, src)
	require.Len(t, sch.Phases, 1)
	assert.Equal(t, "strict", sch.Phases[0].ID)
	assert.Equal(t, []string{"p1", "p2"}, sch.Phases[0].ActivePatterns)
}

func TestParseSkipsUnrecognizedElements(t *testing.T) {
	const src = `<schema xmlns="http://purl.oclc.org/dml/schematron">
		<diagnostics>
			<diagnostic id="d1">some text</diagnostic>
		</diagnostics>
		<pattern>
			<rule context="order">
				<assert test="true()">ok</assert>
			</rule>
		</pattern>
	</schema>`
	sch := parse(t, src)
	require.Len(t, sch.Patterns, 1)
}

func TestParseRejectsWrongRootElement(t *testing.T) {
	const src = `<notSchema xmlns="http://purl.oclc.org/dml/schematron"/>`
	_, err := Parse(xmlevent.NewReader(strings.NewReader(src)))
	assert.Error(t, err)
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	_, err := Parse(xmlevent.NewReader(strings.NewReader("")))
	assert.Error(t, err)
}

func TestParseMultipleRulesAndChecksPerPattern(t *testing.T) {
	const src = `<schema xmlns="http://purl.oclc.org/dml/schematron">
		<pattern>
			<rule context="order">
				<assert test="@total &gt; 0">a</assert>
				<assert test="@id">b</assert>
			</rule>
			<rule context="lineItem">
				<report test="@qty &lt;= 0">c</report>
			</rule>
		</pattern>
	</schema>`
	sch := parse(t, src)
	require.Len(t, sch.Patterns[0].Rules, 2)
	assert.Len(t, sch.Patterns[0].Rules[0].Checks, 2)
	assert.Len(t, sch.Patterns[0].Rules[1].Checks, 1)
}
